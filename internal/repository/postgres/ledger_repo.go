package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/EduFin215/Finomik-CRM-sub001/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const listSettledIncome = `
SELECT amount, paid_date
FROM invoices
WHERE organization_id = $1 AND status = 'paid' AND paid_date <= $2
ORDER BY paid_date`

const listSettledExpenses = `
SELECT amount, paid_date
FROM expenses
WHERE organization_id = $1 AND status = 'paid' AND paid_date <= $2
ORDER BY paid_date`

// LedgerRepository implements domain.LedgerRepository using PostgreSQL
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// ListSettledIncome returns paid invoices dated on or before upTo
func (r *LedgerRepository) ListSettledIncome(ctx context.Context, orgID uuid.UUID, upTo time.Time) ([]domain.SettledIncome, error) {
	rows, err := r.querySettled(ctx, listSettledIncome, orgID, upTo, "invoices")
	if err != nil {
		return nil, err
	}
	result := make([]domain.SettledIncome, 0, len(rows))
	for _, row := range rows {
		result = append(result, domain.SettledIncome(row))
	}
	return result, nil
}

// ListSettledExpenses returns paid expenses dated on or before upTo
func (r *LedgerRepository) ListSettledExpenses(ctx context.Context, orgID uuid.UUID, upTo time.Time) ([]domain.SettledExpense, error) {
	rows, err := r.querySettled(ctx, listSettledExpenses, orgID, upTo, "expenses")
	if err != nil {
		return nil, err
	}
	result := make([]domain.SettledExpense, 0, len(rows))
	for _, row := range rows {
		result = append(result, domain.SettledExpense(row))
	}
	return result, nil
}

type settledRow struct {
	Amount      decimal.Decimal
	SettledDate time.Time
}

func (r *LedgerRepository) querySettled(ctx context.Context, query string, orgID uuid.UUID, upTo time.Time, table string) ([]settledRow, error) {
	rows, err := r.pool.Query(ctx, query, pgtype.UUID{Bytes: orgID, Valid: true}, timeToPgDate(upTo))
	if err != nil {
		return nil, fmt.Errorf("query settled %s: %w", table, err)
	}
	defer rows.Close()

	var result []settledRow
	for rows.Next() {
		var amount pgtype.Numeric
		var paidDate pgtype.Date
		if err := rows.Scan(&amount, &paidDate); err != nil {
			return nil, fmt.Errorf("scan settled %s: %w", table, err)
		}

		value, ok := pgNumericToDecimal(amount)
		settled := pgDateToTime(paidDate)
		if !ok || settled == nil {
			skipMalformed(table, orgID)
			continue
		}
		result = append(result, settledRow{Amount: value, SettledDate: *settled})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read settled %s: %w", table, err)
	}
	return result, nil
}
