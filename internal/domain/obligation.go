package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceStatusSent    InvoiceStatus = "sent"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)

// IsValid reports whether the status is one of the unsettled invoice states
func (s InvoiceStatus) IsValid() bool {
	return s == InvoiceStatusSent || s == InvoiceStatusOverdue
}

type ContractFrequency string

const (
	FrequencyMonthly   ContractFrequency = "monthly"
	FrequencyQuarterly ContractFrequency = "quarterly"
	FrequencyYearly    ContractFrequency = "yearly"
)

// MonthsPerPeriod returns how many months one billing period covers, or 0 for an unknown frequency
func (f ContractFrequency) MonthsPerPeriod() int64 {
	switch f {
	case FrequencyMonthly:
		return 1
	case FrequencyQuarterly:
		return 3
	case FrequencyYearly:
		return 12
	default:
		return 0
	}
}

// PendingInvoice is a receivable not yet collected
type PendingInvoice struct {
	Amount  decimal.Decimal `json:"amount"`
	DueDate *time.Time      `json:"dueDate,omitempty"`
	Status  InvoiceStatus   `json:"status"`
}

// PendingExpense is a one-off payable not yet paid
type PendingExpense struct {
	Amount  decimal.Decimal `json:"amount"`
	DueDate *time.Time      `json:"dueDate,omitempty"`
}

// RecurringContract is a standing income agreement with no fixed end
type RecurringContract struct {
	Amount    decimal.Decimal   `json:"amount"`
	Frequency ContractFrequency `json:"frequency"`
}

// MonthlyAmount normalizes the contract amount to a monthly equivalent
func (c RecurringContract) MonthlyAmount() decimal.Decimal {
	months := c.Frequency.MonthsPerPeriod()
	if months <= 1 {
		return c.Amount
	}
	return c.Amount.Div(decimal.NewFromInt(months))
}

// RecurringExpense is a standing payable recurring on the anchor's day of month until cancelled
type RecurringExpense struct {
	Amount        decimal.Decimal `json:"amount"`
	AnchorDueDate *time.Time      `json:"anchorDueDate,omitempty"`
	Active        bool            `json:"active"`
}

// ObligationRepository reads forward-looking facts
type ObligationRepository interface {
	ListPendingInvoices(ctx context.Context, orgID uuid.UUID) ([]PendingInvoice, error)
	ListPendingExpenses(ctx context.Context, orgID uuid.UUID) ([]PendingExpense, error)
	ListActiveContracts(ctx context.Context, orgID uuid.UUID) ([]RecurringContract, error)
	ListRecurringExpenses(ctx context.Context, orgID uuid.UUID) ([]RecurringExpense, error)
}

// BaselineRepository stores the configured starting cash of an organization.
// GetCashBaseline returns nil when no baseline is configured.
type BaselineRepository interface {
	GetCashBaseline(ctx context.Context, orgID uuid.UUID) (*decimal.Decimal, error)
	SetCashBaseline(ctx context.Context, orgID uuid.UUID, amount decimal.Decimal) error
	ClearCashBaseline(ctx context.Context, orgID uuid.UUID) error
}

// Obligations bundles every forward-looking fact stream used by a forecast
type Obligations struct {
	Invoices          []PendingInvoice
	Expenses          []PendingExpense
	Contracts         []RecurringContract
	RecurringExpenses []RecurringExpense
}
