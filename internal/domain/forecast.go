package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the key format of a forecast day
const DateLayout = "2006-01-02"

const (
	// DefaultForecastDays is used when a caller does not pass a horizon
	DefaultForecastDays = 90
	// MaxForecastDays bounds the horizon accepted over the API
	MaxForecastDays = 365
	// KPIForecastDays is the horizon used for the forecastNext30Days KPI
	KPIForecastDays = 30
)

// ForecastDay is one point in a projected cash series. It is never persisted.
type ForecastDay struct {
	Date          time.Time       `json:"date"`
	ProjectedCash decimal.Decimal `json:"projectedCash"`
}

// AgingSummary holds outstanding amounts bucketed by due-date proximity
type AgingSummary struct {
	InvoicesComingDue    decimal.Decimal `json:"invoicesComingDue"`
	InvoicesOverdue1_30  decimal.Decimal `json:"invoicesOverdue1_30"`
	InvoicesOverdue31_60 decimal.Decimal `json:"invoicesOverdue31_60"`
	ExpensesComingDue    decimal.Decimal `json:"expensesComingDue"`
	ExpensesOverdue1_30  decimal.Decimal `json:"expensesOverdue1_30"`
	ExpensesOverdue31_60 decimal.Decimal `json:"expensesOverdue31_60"`
}

// AgingBucket classifies a due date relative to today
type AgingBucket int

const (
	AgingExcluded AgingBucket = iota
	AgingComingDue
	AgingOverdue1To30
	AgingOverdue31To60
)

// KPIs are the point-in-time dashboard metrics. Nil pointers mean "unknown", never zero.
type KPIs struct {
	IncomeThisMonth     decimal.Decimal  `json:"incomeThisMonth"`
	ExpensesThisMonth   decimal.Decimal  `json:"expensesThisMonth"`
	NetResultThisMonth  decimal.Decimal  `json:"netResultThisMonth"`
	CashPosition        *decimal.Decimal `json:"cashPosition"`
	ForecastNext30Days  *decimal.Decimal `json:"forecastNext30Days"`
	BurnRateLast3Months decimal.Decimal  `json:"burnRateLast3Months"`
	IncomePrevMonth     decimal.Decimal  `json:"incomePrevMonth"`
	ExpensesPrevMonth   decimal.Decimal  `json:"expensesPrevMonth"`
}

// ForecastPoint marks a notable day of a forecast series
type ForecastPoint struct {
	Date          time.Time       `json:"date"`
	ProjectedCash decimal.Decimal `json:"projectedCash"`
}

// ReportOverview is the cross-module cash report
type ReportOverview struct {
	GeneratedFor      time.Time        `json:"generatedFor"`
	KPIs              *KPIs            `json:"kpis"`
	Aging             *AgingSummary    `json:"aging"`
	Forecast          []ForecastDay    `json:"forecast"`
	LowestPoint       *ForecastPoint   `json:"lowestPoint,omitempty"`
	FirstNegativeDate *time.Time       `json:"firstNegativeDate,omitempty"`
	RunwayMonths      *decimal.Decimal `json:"runwayMonths"`
}

// ReportExport describes an exported report file
type ReportExport struct {
	ObjectPath string    `json:"objectPath"`
	URL        string    `json:"url"`
	ExpiresAt  time.Time `json:"expiresAt"`
}
