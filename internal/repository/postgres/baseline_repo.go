package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const getCashBaseline = `
SELECT starting_cash FROM organization_settings WHERE organization_id = $1`

const setCashBaseline = `
INSERT INTO organization_settings (organization_id, starting_cash, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (organization_id) DO UPDATE
SET starting_cash = EXCLUDED.starting_cash, updated_at = NOW()`

const clearCashBaseline = `
UPDATE organization_settings SET starting_cash = NULL, updated_at = NOW()
WHERE organization_id = $1`

// BaselineRepository implements domain.BaselineRepository using PostgreSQL
type BaselineRepository struct {
	pool *pgxpool.Pool
}

// NewBaselineRepository creates a new BaselineRepository
func NewBaselineRepository(pool *pgxpool.Pool) *BaselineRepository {
	return &BaselineRepository{pool: pool}
}

// GetCashBaseline returns the configured starting cash, nil when none is set
func (r *BaselineRepository) GetCashBaseline(ctx context.Context, orgID uuid.UUID) (*decimal.Decimal, error) {
	var startingCash pgtype.Numeric
	err := r.pool.QueryRow(ctx, getCashBaseline, pgtype.UUID{Bytes: orgID, Valid: true}).Scan(&startingCash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cash baseline: %w", err)
	}

	value, ok := pgNumericToDecimal(startingCash)
	if !ok {
		return nil, nil
	}
	return &value, nil
}

// SetCashBaseline stores the starting cash
func (r *BaselineRepository) SetCashBaseline(ctx context.Context, orgID uuid.UUID, amount decimal.Decimal) error {
	num, err := decimalToPgNumeric(amount)
	if err != nil {
		return fmt.Errorf("convert starting cash: %w", err)
	}
	if _, err := r.pool.Exec(ctx, setCashBaseline, pgtype.UUID{Bytes: orgID, Valid: true}, num); err != nil {
		return fmt.Errorf("set cash baseline: %w", err)
	}
	return nil
}

// ClearCashBaseline removes the starting cash
func (r *BaselineRepository) ClearCashBaseline(ctx context.Context, orgID uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, clearCashBaseline, pgtype.UUID{Bytes: orgID, Valid: true}); err != nil {
		return fmt.Errorf("clear cash baseline: %w", err)
	}
	return nil
}
