package service

import (
	"context"
	"time"

	"github.com/EduFin215/Finomik-CRM-sub001/internal/domain"
	"github.com/EduFin215/Finomik-CRM-sub001/internal/util"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// daysPerMonth is the fixed divisor that turns a monthly contract amount into a daily run-rate
var daysPerMonth = decimal.NewFromInt(30)

// ForecastService projects an organization's cash position day by day
type ForecastService struct {
	ledger      *LedgerReader
	obligations *ObligationReader
	calendar    *Calendar
}

// NewForecastService creates a new ForecastService
func NewForecastService(ledger *LedgerReader, obligations *ObligationReader, calendar *Calendar) *ForecastService {
	return &ForecastService{
		ledger:      ledger,
		obligations: obligations,
		calendar:    calendar,
	}
}

// ProjectCashflow returns one projected balance per day for horizonDays days starting today.
// Upstream read failures yield a flat series at base cash rather than an error.
func (s *ForecastService) ProjectCashflow(ctx context.Context, orgID uuid.UUID, horizonDays int) ([]domain.ForecastDay, error) {
	if horizonDays < 0 {
		return nil, domain.ErrInvalidHorizon
	}
	today := s.calendar.Today()
	return s.projectAt(ctx, orgID, today, horizonDays), nil
}

// BaseCash returns the configured baseline (zero when unset) plus cumulative settled net up to today
func (s *ForecastService) BaseCash(ctx context.Context, orgID uuid.UUID) decimal.Decimal {
	today := s.calendar.Today()
	return s.baseCashAt(ctx, orgID, today, s.obligations.GetCashBaseline(ctx, orgID))
}

func (s *ForecastService) projectAt(ctx context.Context, orgID uuid.UUID, today time.Time, horizonDays int) []domain.ForecastDay {
	if horizonDays == 0 {
		return []domain.ForecastDay{}
	}
	base := s.baseCashAt(ctx, orgID, today, s.obligations.GetCashBaseline(ctx, orgID))
	return s.projectFromBase(ctx, orgID, today, base, horizonDays)
}

func (s *ForecastService) projectFromBase(ctx context.Context, orgID uuid.UUID, today time.Time, base decimal.Decimal, horizonDays int) []domain.ForecastDay {
	facts := s.obligations.Load(ctx, orgID)
	return BuildForecast(today, base, facts, horizonDays)
}

func (s *ForecastService) baseCashAt(ctx context.Context, orgID uuid.UUID, today time.Time, startingCash *decimal.Decimal) decimal.Decimal {
	base := decimal.Zero
	if startingCash != nil {
		base = *startingCash
	}
	return base.Add(s.ledger.CumulativeNet(ctx, orgID, today))
}

// BuildForecast is the pure forecast algorithm: it buckets every fact into daily income and
// expense maps, then walks the horizon accumulating a running balance from baseCash.
func BuildForecast(today time.Time, baseCash decimal.Decimal, facts domain.Obligations, horizonDays int) []domain.ForecastDay {
	if horizonDays <= 0 {
		return []domain.ForecastDay{}
	}
	today = util.DateOnly(today)
	income, expense := dailyFlows(today, facts, horizonDays)

	series := make([]domain.ForecastDay, 0, horizonDays)
	balance := baseCash
	for i := 0; i < horizonDays; i++ {
		day := today.AddDate(0, 0, i)
		key := util.DateKey(day)
		balance = balance.Add(income[key]).Sub(expense[key])
		series = append(series, domain.ForecastDay{
			Date:          day,
			ProjectedCash: balance.Round(2),
		})
	}
	return series
}

// dailyFlows builds the income and expense maps keyed by YYYY-MM-DD
func dailyFlows(today time.Time, facts domain.Obligations, horizonDays int) (map[string]decimal.Decimal, map[string]decimal.Decimal) {
	income := make(map[string]decimal.Decimal)
	expense := make(map[string]decimal.Decimal)
	add := func(m map[string]decimal.Decimal, day time.Time, amount decimal.Decimal) {
		key := util.DateKey(day)
		m[key] = m[key].Add(amount)
	}

	// Overdue items are assumed to settle today rather than on their past due date.
	for _, inv := range facts.Invoices {
		if inv.DueDate == nil {
			continue
		}
		add(income, util.MaxDate(util.DateOnly(*inv.DueDate), today), inv.Amount)
	}

	for _, c := range facts.Contracts {
		rate := c.MonthlyAmount().Div(daysPerMonth)
		for i := 0; i < horizonDays; i++ {
			add(income, today.AddDate(0, 0, i), rate)
		}
	}

	for _, exp := range facts.Expenses {
		if exp.DueDate == nil {
			continue
		}
		add(expense, util.MaxDate(util.DateOnly(*exp.DueDate), today), exp.Amount)
	}

	for _, rec := range facts.RecurringExpenses {
		for _, day := range monthlyOccurrences(rec.AnchorDueDate, today, horizonDays) {
			add(expense, day, rec.Amount)
		}
	}

	return income, expense
}

// monthlyOccurrences lists the dates in [today, today+horizonDays) that fall on the anchor's
// day of month, stepping one calendar month at a time from the anchor (today when nil).
// Short months clamp to their last day without moving later occurrences off the anchor day.
func monthlyOccurrences(anchor *time.Time, today time.Time, horizonDays int) []time.Time {
	start := today
	if anchor != nil {
		start = util.DateOnly(*anchor)
	}
	end := today.AddDate(0, 0, horizonDays)

	// Skip whole months that end before today so old anchors do not walk years of history.
	step := 0
	if gap := monthsBetween(start, today) - 1; gap > 0 {
		step = gap
	}

	var days []time.Time
	for {
		day := util.CalculateActualDate(start.Year(), start.Month()+time.Month(step), start.Day())
		if !day.Before(end) {
			break
		}
		if !day.Before(today) {
			days = append(days, day)
		}
		step++
	}
	return days
}

func monthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}
