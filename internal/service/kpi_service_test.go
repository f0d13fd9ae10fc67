package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/EduFin215/Finomik-CRM-sub001/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedKPILedger(f *engineFixture) {
	f.ledger.AddIncome(f.orgID, "1000", testutil.Date(2026, time.October, 5))
	f.ledger.AddIncome(f.orgID, "300", testutil.Date(2026, time.September, 20))
	f.ledger.AddExpense(f.orgID, "400", testutil.Date(2026, time.October, 2))
	f.ledger.AddExpense(f.orgID, "600", testutil.Date(2026, time.September, 10))
	f.ledger.AddExpense(f.orgID, "300", testutil.Date(2026, time.August, 1))
	f.ledger.AddExpense(f.orgID, "500", testutil.Date(2026, time.July, 1))
}

func TestComputeKPIs_MonthlySums(t *testing.T) {
	f := setupEngine(testutil.Date(2026, time.October, 14))
	seedKPILedger(f)

	kpis := f.kpis.ComputeKPIs(context.Background(), f.orgID, nil)

	assert.Equal(t, "1000.00", kpis.IncomeThisMonth.StringFixed(2))
	assert.Equal(t, "400.00", kpis.ExpensesThisMonth.StringFixed(2))
	assert.Equal(t, "600.00", kpis.NetResultThisMonth.StringFixed(2))
	assert.Equal(t, "300.00", kpis.IncomePrevMonth.StringFixed(2))
	assert.Equal(t, "600.00", kpis.ExpensesPrevMonth.StringFixed(2))
	// Jul 1 falls before the Jul 14 window start
	assert.Equal(t, "433.33", kpis.BurnRateLast3Months.StringFixed(2))
}

func TestComputeKPIs_UnknownBaseline(t *testing.T) {
	f := setupEngine(testutil.Date(2026, time.October, 14))
	seedKPILedger(f)

	kpis := f.kpis.ComputeKPIs(context.Background(), f.orgID, nil)

	assert.Nil(t, kpis.CashPosition)
	assert.Nil(t, kpis.ForecastNext30Days)
}

func TestComputeKPIs_WithBaseline(t *testing.T) {
	f := setupEngine(testutil.Date(2026, time.October, 14))
	seedKPILedger(f)
	f.obligations.AddInvoice(f.orgID, "250", f.daysFrom(10))
	f.obligations.AddExpense(f.orgID, "75", f.daysFrom(30))

	kpis := f.kpis.ComputeKPIs(context.Background(), f.orgID, testutil.DecPtr("5000"))

	require.NotNil(t, kpis.CashPosition)
	require.NotNil(t, kpis.ForecastNext30Days)
	assert.Equal(t, "4500.00", kpis.CashPosition.StringFixed(2))
	// the expense due on day 30 is outside the 30-day window
	assert.Equal(t, "4750.00", kpis.ForecastNext30Days.StringFixed(2))
}

func TestGetKPIs_ReadsStoredBaseline(t *testing.T) {
	f := setupEngine(testutil.Date(2026, time.October, 14))
	f.baselines.SetBaseline(f.orgID, "1200")

	kpis := f.kpis.GetKPIs(context.Background(), f.orgID)

	require.NotNil(t, kpis.CashPosition)
	assert.Equal(t, "1200.00", kpis.CashPosition.StringFixed(2))

	f.baselines.Err = errors.New("connection reset")
	kpis = f.kpis.GetKPIs(context.Background(), f.orgID)
	assert.Nil(t, kpis.CashPosition)
}

func TestComputeKPIs_MonthBoundariesInJanuary(t *testing.T) {
	f := setupEngine(testutil.Date(2027, time.January, 10))
	f.ledger.AddIncome(f.orgID, "100", testutil.Date(2026, time.December, 31))
	f.ledger.AddIncome(f.orgID, "40", testutil.Date(2027, time.January, 1))

	kpis := f.kpis.ComputeKPIs(context.Background(), f.orgID, nil)

	assert.Equal(t, "40.00", kpis.IncomeThisMonth.StringFixed(2))
	assert.Equal(t, "100.00", kpis.IncomePrevMonth.StringFixed(2))
}

func TestBurnRate(t *testing.T) {
	f := setupEngine(testutil.Date(2026, time.October, 14))
	f.ledger.AddExpense(f.orgID, "900", testutil.Date(2026, time.July, 14))
	f.ledger.AddExpense(f.orgID, "300", testutil.Date(2026, time.July, 13))

	assert.Equal(t, "300.00", f.kpis.BurnRate(context.Background(), f.orgID).StringFixed(2))
}

func TestComputeKPIs_LedgerFailure(t *testing.T) {
	f := setupEngine(testutil.Date(2026, time.October, 14))
	seedKPILedger(f)
	f.ledger.Err = errors.New("connection refused")

	kpis := f.kpis.ComputeKPIs(context.Background(), f.orgID, testutil.DecPtr("100"))

	assert.True(t, kpis.IncomeThisMonth.IsZero())
	assert.True(t, kpis.BurnRateLast3Months.IsZero())
	require.NotNil(t, kpis.CashPosition)
	assert.Equal(t, "100.00", kpis.CashPosition.StringFixed(2))
}
