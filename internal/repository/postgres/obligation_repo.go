package postgres

import (
	"context"
	"fmt"

	"github.com/EduFin215/Finomik-CRM-sub001/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

const listPendingInvoices = `
SELECT amount, due_date, status
FROM invoices
WHERE organization_id = $1 AND status IN ('sent', 'overdue')`

const listPendingExpenses = `
SELECT amount, due_date
FROM expenses
WHERE organization_id = $1 AND status = 'pending' AND NOT is_recurring`

const listActiveContracts = `
SELECT amount, frequency
FROM contracts
WHERE organization_id = $1 AND status = 'active'`

const listRecurringExpenses = `
SELECT amount, due_date
FROM expenses
WHERE organization_id = $1 AND is_recurring AND status <> 'cancelled'`

// ObligationRepository implements domain.ObligationRepository using PostgreSQL.
// Rows with a missing amount or an unknown status or frequency are skipped individually.
type ObligationRepository struct {
	pool *pgxpool.Pool
}

// NewObligationRepository creates a new ObligationRepository
func NewObligationRepository(pool *pgxpool.Pool) *ObligationRepository {
	return &ObligationRepository{pool: pool}
}

// ListPendingInvoices returns invoices that are sent or overdue
func (r *ObligationRepository) ListPendingInvoices(ctx context.Context, orgID uuid.UUID) ([]domain.PendingInvoice, error) {
	rows, err := r.pool.Query(ctx, listPendingInvoices, pgtype.UUID{Bytes: orgID, Valid: true})
	if err != nil {
		return nil, fmt.Errorf("query pending invoices: %w", err)
	}
	defer rows.Close()

	var result []domain.PendingInvoice
	for rows.Next() {
		var amount pgtype.Numeric
		var dueDate pgtype.Date
		var status pgtype.Text
		if err := rows.Scan(&amount, &dueDate, &status); err != nil {
			return nil, fmt.Errorf("scan pending invoice: %w", err)
		}

		value, ok := pgNumericToDecimal(amount)
		invoiceStatus := domain.InvoiceStatus(status.String)
		if !ok || !invoiceStatus.IsValid() {
			skipMalformed("invoices", orgID)
			continue
		}
		result = append(result, domain.PendingInvoice{
			Amount:  value,
			DueDate: pgDateToTime(dueDate),
			Status:  invoiceStatus,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read pending invoices: %w", err)
	}
	return result, nil
}

// ListPendingExpenses returns one-off expenses not yet paid
func (r *ObligationRepository) ListPendingExpenses(ctx context.Context, orgID uuid.UUID) ([]domain.PendingExpense, error) {
	rows, err := r.pool.Query(ctx, listPendingExpenses, pgtype.UUID{Bytes: orgID, Valid: true})
	if err != nil {
		return nil, fmt.Errorf("query pending expenses: %w", err)
	}
	defer rows.Close()

	var result []domain.PendingExpense
	for rows.Next() {
		var amount pgtype.Numeric
		var dueDate pgtype.Date
		if err := rows.Scan(&amount, &dueDate); err != nil {
			return nil, fmt.Errorf("scan pending expense: %w", err)
		}

		value, ok := pgNumericToDecimal(amount)
		if !ok {
			skipMalformed("expenses", orgID)
			continue
		}
		result = append(result, domain.PendingExpense{Amount: value, DueDate: pgDateToTime(dueDate)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read pending expenses: %w", err)
	}
	return result, nil
}

// ListActiveContracts returns active recurring income contracts
func (r *ObligationRepository) ListActiveContracts(ctx context.Context, orgID uuid.UUID) ([]domain.RecurringContract, error) {
	rows, err := r.pool.Query(ctx, listActiveContracts, pgtype.UUID{Bytes: orgID, Valid: true})
	if err != nil {
		return nil, fmt.Errorf("query active contracts: %w", err)
	}
	defer rows.Close()

	var result []domain.RecurringContract
	for rows.Next() {
		var amount pgtype.Numeric
		var frequency pgtype.Text
		if err := rows.Scan(&amount, &frequency); err != nil {
			return nil, fmt.Errorf("scan contract: %w", err)
		}

		value, ok := pgNumericToDecimal(amount)
		freq := domain.ContractFrequency(frequency.String)
		if !ok || freq.MonthsPerPeriod() == 0 {
			skipMalformed("contracts", orgID)
			continue
		}
		result = append(result, domain.RecurringContract{Amount: value, Frequency: freq})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read contracts: %w", err)
	}
	return result, nil
}

// ListRecurringExpenses returns recurring expenses that are not cancelled.
// The due date of the row is the anchor of the monthly recurrence.
func (r *ObligationRepository) ListRecurringExpenses(ctx context.Context, orgID uuid.UUID) ([]domain.RecurringExpense, error) {
	rows, err := r.pool.Query(ctx, listRecurringExpenses, pgtype.UUID{Bytes: orgID, Valid: true})
	if err != nil {
		return nil, fmt.Errorf("query recurring expenses: %w", err)
	}
	defer rows.Close()

	var result []domain.RecurringExpense
	for rows.Next() {
		var amount pgtype.Numeric
		var anchor pgtype.Date
		if err := rows.Scan(&amount, &anchor); err != nil {
			return nil, fmt.Errorf("scan recurring expense: %w", err)
		}

		value, ok := pgNumericToDecimal(amount)
		if !ok {
			skipMalformed("expenses", orgID)
			continue
		}
		result = append(result, domain.RecurringExpense{
			Amount:        value,
			AnchorDueDate: pgDateToTime(anchor),
			Active:        true,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read recurring expenses: %w", err)
	}
	return result, nil
}

func skipMalformed(table string, orgID uuid.UUID) {
	log.Debug().Str("table", table).Str("organization_id", orgID.String()).Msg("Skipping malformed row")
}
