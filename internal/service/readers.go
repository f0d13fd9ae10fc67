package service

import (
	"context"
	"time"

	"github.com/EduFin215/Finomik-CRM-sub001/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// DefaultUpstreamTimeout bounds a single read from the data store
const DefaultUpstreamTimeout = 5 * time.Second

// LedgerReader reads settled cash movements. Upstream failures degrade to an empty
// result so dashboards always render; they are logged, never returned.
type LedgerReader struct {
	repo    domain.LedgerRepository
	timeout time.Duration
}

// NewLedgerReader creates a new LedgerReader
func NewLedgerReader(repo domain.LedgerRepository, timeout time.Duration) *LedgerReader {
	if timeout <= 0 {
		timeout = DefaultUpstreamTimeout
	}
	return &LedgerReader{repo: repo, timeout: timeout}
}

// ListSettledIncome returns paid invoices dated on or before upTo
func (r *LedgerReader) ListSettledIncome(ctx context.Context, orgID uuid.UUID, upTo time.Time) []domain.SettledIncome {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	events, err := r.repo.ListSettledIncome(ctx, orgID, upTo)
	if err != nil {
		logUpstreamFailure(err, orgID, "settled_income")
		return nil
	}
	return events
}

// ListSettledExpenses returns paid expenses dated on or before upTo
func (r *LedgerReader) ListSettledExpenses(ctx context.Context, orgID uuid.UUID, upTo time.Time) []domain.SettledExpense {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	events, err := r.repo.ListSettledExpenses(ctx, orgID, upTo)
	if err != nil {
		logUpstreamFailure(err, orgID, "settled_expenses")
		return nil
	}
	return events
}

// CumulativeNet returns settled income minus settled expenses up to and including upTo
func (r *LedgerReader) CumulativeNet(ctx context.Context, orgID uuid.UUID, upTo time.Time) decimal.Decimal {
	income := r.ListSettledIncome(ctx, orgID, upTo)
	expenses := r.ListSettledExpenses(ctx, orgID, upTo)
	return cumulativeNet(income, expenses, upTo)
}

func cumulativeNet(income []domain.SettledIncome, expenses []domain.SettledExpense, upTo time.Time) decimal.Decimal {
	var beginning time.Time
	return domain.SumSettledIncome(income, beginning, upTo).
		Sub(domain.SumSettledExpenses(expenses, beginning, upTo))
}

// ObligationReader reads forward-looking facts and the configured baseline with the same
// degrade-to-empty policy as LedgerReader
type ObligationReader struct {
	repo         domain.ObligationRepository
	baselineRepo domain.BaselineRepository
	timeout      time.Duration
}

// NewObligationReader creates a new ObligationReader
func NewObligationReader(repo domain.ObligationRepository, baselineRepo domain.BaselineRepository, timeout time.Duration) *ObligationReader {
	if timeout <= 0 {
		timeout = DefaultUpstreamTimeout
	}
	return &ObligationReader{repo: repo, baselineRepo: baselineRepo, timeout: timeout}
}

// ListPendingInvoices returns receivables not yet collected
func (r *ObligationReader) ListPendingInvoices(ctx context.Context, orgID uuid.UUID) []domain.PendingInvoice {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	invoices, err := r.repo.ListPendingInvoices(ctx, orgID)
	if err != nil {
		logUpstreamFailure(err, orgID, "pending_invoices")
		return nil
	}
	return invoices
}

// ListPendingExpenses returns one-off payables not yet paid
func (r *ObligationReader) ListPendingExpenses(ctx context.Context, orgID uuid.UUID) []domain.PendingExpense {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	expenses, err := r.repo.ListPendingExpenses(ctx, orgID)
	if err != nil {
		logUpstreamFailure(err, orgID, "pending_expenses")
		return nil
	}
	return expenses
}

// ListActiveContracts returns active recurring income contracts
func (r *ObligationReader) ListActiveContracts(ctx context.Context, orgID uuid.UUID) []domain.RecurringContract {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	contracts, err := r.repo.ListActiveContracts(ctx, orgID)
	if err != nil {
		logUpstreamFailure(err, orgID, "active_contracts")
		return nil
	}
	return contracts
}

// ListRecurringExpenses returns recurring expenses that are not cancelled
func (r *ObligationReader) ListRecurringExpenses(ctx context.Context, orgID uuid.UUID) []domain.RecurringExpense {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	expenses, err := r.repo.ListRecurringExpenses(ctx, orgID)
	if err != nil {
		logUpstreamFailure(err, orgID, "recurring_expenses")
		return nil
	}
	return expenses
}

// GetCashBaseline returns the configured starting cash, or nil when unset or unreadable
func (r *ObligationReader) GetCashBaseline(ctx context.Context, orgID uuid.UUID) *decimal.Decimal {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	baseline, err := r.baselineRepo.GetCashBaseline(ctx, orgID)
	if err != nil {
		logUpstreamFailure(err, orgID, "cash_baseline")
		return nil
	}
	return baseline
}

// Load reads every forward-looking fact stream of an organization
func (r *ObligationReader) Load(ctx context.Context, orgID uuid.UUID) domain.Obligations {
	return domain.Obligations{
		Invoices:          r.ListPendingInvoices(ctx, orgID),
		Expenses:          r.ListPendingExpenses(ctx, orgID),
		Contracts:         r.ListActiveContracts(ctx, orgID),
		RecurringExpenses: r.ListRecurringExpenses(ctx, orgID),
	}
}

func logUpstreamFailure(err error, orgID uuid.UUID, stream string) {
	log.Warn().
		Err(err).
		Str("organization_id", orgID.String()).
		Str("stream", stream).
		Msg("Upstream read failed, continuing with no facts")
}
