package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SettledIncome is a paid invoice. It is immutable once recorded.
type SettledIncome struct {
	Amount      decimal.Decimal `json:"amount"`
	SettledDate time.Time       `json:"settledDate"`
}

// SettledExpense is a paid expense. It is immutable once recorded.
type SettledExpense struct {
	Amount      decimal.Decimal `json:"amount"`
	SettledDate time.Time       `json:"settledDate"`
}

// LedgerRepository reads settled cash movements.
// Both methods return events with SettledDate <= upTo.
type LedgerRepository interface {
	ListSettledIncome(ctx context.Context, orgID uuid.UUID, upTo time.Time) ([]SettledIncome, error)
	ListSettledExpenses(ctx context.Context, orgID uuid.UUID, upTo time.Time) ([]SettledExpense, error)
}

// SumSettledIncome sums income events dated within [from, to]
func SumSettledIncome(events []SettledIncome, from, to time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, e := range events {
		if !e.SettledDate.Before(from) && !e.SettledDate.After(to) {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// SumSettledExpenses sums expense events dated within [from, to]
func SumSettledExpenses(events []SettledExpense, from, to time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, e := range events {
		if !e.SettledDate.Before(from) && !e.SettledDate.After(to) {
			total = total.Add(e.Amount)
		}
	}
	return total
}
