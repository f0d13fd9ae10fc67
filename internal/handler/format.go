package handler

import (
	"strconv"
	"time"

	"github.com/EduFin215/Finomik-CRM-sub001/internal/domain"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// ForecastDayResponse represents one projected day in API responses
type ForecastDayResponse struct {
	Date          string `json:"date"`
	ProjectedCash string `json:"projectedCash"`
}

// AgingResponse represents the aging summary in API responses
type AgingResponse struct {
	InvoicesComingDue    string `json:"invoicesComingDue"`
	InvoicesOverdue1_30  string `json:"invoicesOverdue1_30"`
	InvoicesOverdue31_60 string `json:"invoicesOverdue31_60"`
	ExpensesComingDue    string `json:"expensesComingDue"`
	ExpensesOverdue1_30  string `json:"expensesOverdue1_30"`
	ExpensesOverdue31_60 string `json:"expensesOverdue31_60"`
}

// KPIResponse represents the dashboard KPIs. Unknown values are null.
type KPIResponse struct {
	IncomeThisMonth     string  `json:"incomeThisMonth"`
	ExpensesThisMonth   string  `json:"expensesThisMonth"`
	NetResultThisMonth  string  `json:"netResultThisMonth"`
	CashPosition        *string `json:"cashPosition"`
	ForecastNext30Days  *string `json:"forecastNext30Days"`
	BurnRateLast3Months string  `json:"burnRateLast3Months"`
	IncomePrevMonth     string  `json:"incomePrevMonth"`
	ExpensesPrevMonth   string  `json:"expensesPrevMonth"`
}

func toForecastResponse(series []domain.ForecastDay) []ForecastDayResponse {
	days := make([]ForecastDayResponse, len(series))
	for i, day := range series {
		days[i] = ForecastDayResponse{
			Date:          day.Date.Format(domain.DateLayout),
			ProjectedCash: day.ProjectedCash.StringFixed(2),
		}
	}
	return days
}

func toAgingResponse(a *domain.AgingSummary) AgingResponse {
	return AgingResponse{
		InvoicesComingDue:    a.InvoicesComingDue.StringFixed(2),
		InvoicesOverdue1_30:  a.InvoicesOverdue1_30.StringFixed(2),
		InvoicesOverdue31_60: a.InvoicesOverdue31_60.StringFixed(2),
		ExpensesComingDue:    a.ExpensesComingDue.StringFixed(2),
		ExpensesOverdue1_30:  a.ExpensesOverdue1_30.StringFixed(2),
		ExpensesOverdue31_60: a.ExpensesOverdue31_60.StringFixed(2),
	}
}

func toKPIResponse(k *domain.KPIs) KPIResponse {
	return KPIResponse{
		IncomeThisMonth:     k.IncomeThisMonth.StringFixed(2),
		ExpensesThisMonth:   k.ExpensesThisMonth.StringFixed(2),
		NetResultThisMonth:  k.NetResultThisMonth.StringFixed(2),
		CashPosition:        optionalAmount(k.CashPosition),
		ForecastNext30Days:  optionalAmount(k.ForecastNext30Days),
		BurnRateLast3Months: k.BurnRateLast3Months.StringFixed(2),
		IncomePrevMonth:     k.IncomePrevMonth.StringFixed(2),
		ExpensesPrevMonth:   k.ExpensesPrevMonth.StringFixed(2),
	}
}

func optionalAmount(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.StringFixed(2)
	return &s
}

func optionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(domain.DateLayout)
	return &s
}

// parseHorizon reads the days query param. ok is false when a validation response was written.
func parseHorizon(c echo.Context, defaultDays, maxDays int) (days int, ok bool, err error) {
	daysStr := c.QueryParam("days")
	if daysStr == "" {
		return defaultDays, true, nil
	}

	parsed, convErr := strconv.Atoi(daysStr)
	if convErr != nil {
		return 0, false, NewValidationError(c, "Invalid days format", []ValidationError{{Field: "days", Message: "Must be a valid integer"}})
	}
	if parsed < 0 || parsed > maxDays {
		msg := "Must be between 0 and " + strconv.Itoa(maxDays)
		return 0, false, NewValidationError(c, "Horizon out of range", []ValidationError{{Field: "days", Message: msg}})
	}
	return parsed, true, nil
}
