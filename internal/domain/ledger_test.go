package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestSumSettled_InclusiveRange(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC) }
	from, to := day(1), day(31)

	income := []SettledIncome{
		{Amount: decimal.NewFromInt(100), SettledDate: day(1)},
		{Amount: decimal.NewFromInt(200), SettledDate: day(31)},
		{Amount: decimal.NewFromInt(400), SettledDate: time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)},
		{Amount: decimal.NewFromInt(800), SettledDate: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)},
	}
	if got := SumSettledIncome(income, from, to).StringFixed(2); got != "300.00" {
		t.Errorf("SumSettledIncome() = %s, want 300.00", got)
	}

	expenses := []SettledExpense{
		{Amount: decimal.NewFromInt(50), SettledDate: day(15)},
		{Amount: decimal.NewFromInt(25), SettledDate: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)},
	}
	if got := SumSettledExpenses(expenses, from, to).StringFixed(2); got != "50.00" {
		t.Errorf("SumSettledExpenses() = %s, want 50.00", got)
	}

	if got := SumSettledExpenses(nil, from, to); !got.IsZero() {
		t.Errorf("SumSettledExpenses(nil) = %s, want 0", got)
	}
}
