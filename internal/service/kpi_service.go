package service

import (
	"context"
	"time"

	"github.com/EduFin215/Finomik-CRM-sub001/internal/domain"
	"github.com/EduFin215/Finomik-CRM-sub001/internal/util"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// burnRateMonths is the trailing window of the burn rate average
const burnRateMonths = 3

// KPIService derives point-in-time dashboard metrics. It is stateless and recomputes on every call.
type KPIService struct {
	ledger      *LedgerReader
	obligations *ObligationReader
	forecast    *ForecastService
	calendar    *Calendar
}

// NewKPIService creates a new KPIService
func NewKPIService(ledger *LedgerReader, obligations *ObligationReader, forecast *ForecastService, calendar *Calendar) *KPIService {
	return &KPIService{
		ledger:      ledger,
		obligations: obligations,
		forecast:    forecast,
		calendar:    calendar,
	}
}

// GetKPIs computes the KPIs using the organization's stored baseline
func (s *KPIService) GetKPIs(ctx context.Context, orgID uuid.UUID) *domain.KPIs {
	today := s.calendar.Today()
	return s.computeAt(ctx, orgID, today, s.obligations.GetCashBaseline(ctx, orgID))
}

// ComputeKPIs computes the KPIs for a caller-supplied starting cash.
// A nil startingCash makes CashPosition and ForecastNext30Days unknown (nil).
func (s *KPIService) ComputeKPIs(ctx context.Context, orgID uuid.UUID, startingCash *decimal.Decimal) *domain.KPIs {
	return s.computeAt(ctx, orgID, s.calendar.Today(), startingCash)
}

// BurnRate returns the average monthly settled expenses over the trailing three months
func (s *KPIService) BurnRate(ctx context.Context, orgID uuid.UUID) decimal.Decimal {
	today := s.calendar.Today()
	return burnRate(today, s.ledger.ListSettledExpenses(ctx, orgID, today))
}

func (s *KPIService) computeAt(ctx context.Context, orgID uuid.UUID, today time.Time, startingCash *decimal.Decimal) *domain.KPIs {
	monthStart, monthEnd := util.MonthBounds(today)
	prevStart, prevEnd := util.MonthBounds(util.AddMonths(monthStart, -1))

	income := s.ledger.ListSettledIncome(ctx, orgID, monthEnd)
	expenses := s.ledger.ListSettledExpenses(ctx, orgID, monthEnd)

	kpis := &domain.KPIs{
		IncomeThisMonth:     domain.SumSettledIncome(income, monthStart, monthEnd),
		ExpensesThisMonth:   domain.SumSettledExpenses(expenses, monthStart, monthEnd),
		IncomePrevMonth:     domain.SumSettledIncome(income, prevStart, prevEnd),
		ExpensesPrevMonth:   domain.SumSettledExpenses(expenses, prevStart, prevEnd),
		BurnRateLast3Months: burnRate(today, expenses),
	}
	kpis.NetResultThisMonth = kpis.IncomeThisMonth.Sub(kpis.ExpensesThisMonth)

	if startingCash == nil {
		return kpis
	}

	base := startingCash.Add(cumulativeNet(income, expenses, today))
	kpis.CashPosition = &base

	series := s.forecast.projectFromBase(ctx, orgID, today, base, domain.KPIForecastDays)
	if len(series) > 0 {
		idx := domain.KPIForecastDays - 1
		if idx >= len(series) {
			idx = len(series) - 1
		}
		projected := series[idx].ProjectedCash
		kpis.ForecastNext30Days = &projected
	}

	return kpis
}

// burnRate averages settled expenses in [today-3 months, today] over three months.
// It deliberately does not reuse the forecast's daily buckets.
func burnRate(today time.Time, expenses []domain.SettledExpense) decimal.Decimal {
	from := util.AddMonths(today, -burnRateMonths)
	return domain.SumSettledExpenses(expenses, from, today).Div(decimal.NewFromInt(burnRateMonths))
}
