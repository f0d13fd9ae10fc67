package service

import (
	"time"

	"github.com/EduFin215/Finomik-CRM-sub001/internal/testutil"
	"github.com/google/uuid"
)

type engineFixture struct {
	orgID       uuid.UUID
	today       time.Time
	ledger      *testutil.MockLedgerRepository
	obligations *testutil.MockObligationRepository
	baselines   *testutil.MockBaselineRepository
	forecast    *ForecastService
	aging       *AgingService
	kpis        *KPIService
	reports     *ReportService
}

func setupEngine(today time.Time) *engineFixture {
	ledgerRepo := testutil.NewMockLedgerRepository()
	obligationRepo := testutil.NewMockObligationRepository()
	baselineRepo := testutil.NewMockBaselineRepository()

	calendar := NewFixedCalendar(today)
	ledger := NewLedgerReader(ledgerRepo, time.Second)
	obligations := NewObligationReader(obligationRepo, baselineRepo, time.Second)

	forecast := NewForecastService(ledger, obligations, calendar)
	aging := NewAgingService(obligations, calendar)
	kpis := NewKPIService(ledger, obligations, forecast, calendar)

	return &engineFixture{
		orgID:       uuid.New(),
		today:       today,
		ledger:      ledgerRepo,
		obligations: obligationRepo,
		baselines:   baselineRepo,
		forecast:    forecast,
		aging:       aging,
		kpis:        kpis,
		reports:     NewReportService(forecast, aging, kpis, calendar),
	}
}

// daysFrom returns a pointer to today shifted by n days
func (f *engineFixture) daysFrom(n int) *time.Time {
	d := f.today.AddDate(0, 0, n)
	return &d
}
