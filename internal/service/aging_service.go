package service

import (
	"context"
	"time"

	"github.com/EduFin215/Finomik-CRM-sub001/internal/domain"
	"github.com/EduFin215/Finomik-CRM-sub001/internal/util"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// agingWindowDays is the width of each aging window
const agingWindowDays = 30

// AgingService buckets outstanding receivables and payables by due-date proximity.
// Items more than 60 days overdue or due more than 30 days out are left out on purpose:
// the summary is a near-term liquidity view.
type AgingService struct {
	obligations *ObligationReader
	calendar    *Calendar
}

// NewAgingService creates a new AgingService
func NewAgingService(obligations *ObligationReader, calendar *Calendar) *AgingService {
	return &AgingService{
		obligations: obligations,
		calendar:    calendar,
	}
}

// SummarizeAging returns the six aging sums for an organization
func (s *AgingService) SummarizeAging(ctx context.Context, orgID uuid.UUID) *domain.AgingSummary {
	return s.summarizeAt(ctx, orgID, s.calendar.Today())
}

func (s *AgingService) summarizeAt(ctx context.Context, orgID uuid.UUID, today time.Time) *domain.AgingSummary {
	invoices := s.obligations.ListPendingInvoices(ctx, orgID)
	expenses := s.obligations.ListPendingExpenses(ctx, orgID)
	return BuildAgingSummary(today, invoices, expenses)
}

// BuildAgingSummary is the pure aging computation
func BuildAgingSummary(today time.Time, invoices []domain.PendingInvoice, expenses []domain.PendingExpense) *domain.AgingSummary {
	today = util.DateOnly(today)

	invoiceItems := make([]dueItem, 0, len(invoices))
	for _, inv := range invoices {
		invoiceItems = append(invoiceItems, dueItem{amount: inv.Amount, dueDate: inv.DueDate})
	}
	expenseItems := make([]dueItem, 0, len(expenses))
	for _, exp := range expenses {
		expenseItems = append(expenseItems, dueItem{amount: exp.Amount, dueDate: exp.DueDate})
	}

	inv := bucketize(today, invoiceItems)
	exp := bucketize(today, expenseItems)

	return &domain.AgingSummary{
		InvoicesComingDue:    inv.comingDue,
		InvoicesOverdue1_30:  inv.overdue1To30,
		InvoicesOverdue31_60: inv.overdue31To60,
		ExpensesComingDue:    exp.comingDue,
		ExpensesOverdue1_30:  exp.overdue1To30,
		ExpensesOverdue31_60: exp.overdue31To60,
	}
}

// ClassifyDue places a due date into at most one aging window relative to today
func ClassifyDue(today, due time.Time) domain.AgingBucket {
	today = util.DateOnly(today)
	due = util.DateOnly(due)

	windowAhead := today.AddDate(0, 0, agingWindowDays)
	windowBack := today.AddDate(0, 0, -agingWindowDays)
	windowBack2 := today.AddDate(0, 0, -2*agingWindowDays)

	switch {
	case due.After(today) && !due.After(windowAhead):
		return domain.AgingComingDue
	case !due.Before(windowBack) && !due.After(today):
		return domain.AgingOverdue1To30
	case !due.Before(windowBack2) && due.Before(windowBack):
		return domain.AgingOverdue31To60
	default:
		return domain.AgingExcluded
	}
}

type dueItem struct {
	amount  decimal.Decimal
	dueDate *time.Time
}

type agingTotals struct {
	comingDue     decimal.Decimal
	overdue1To30  decimal.Decimal
	overdue31To60 decimal.Decimal
}

func bucketize(today time.Time, items []dueItem) agingTotals {
	totals := agingTotals{
		comingDue:     decimal.Zero,
		overdue1To30:  decimal.Zero,
		overdue31To60: decimal.Zero,
	}
	for _, item := range items {
		if item.dueDate == nil {
			continue
		}
		switch ClassifyDue(today, *item.dueDate) {
		case domain.AgingComingDue:
			totals.comingDue = totals.comingDue.Add(item.amount)
		case domain.AgingOverdue1To30:
			totals.overdue1To30 = totals.overdue1To30.Add(item.amount)
		case domain.AgingOverdue31To60:
			totals.overdue31To60 = totals.overdue31To60.Add(item.amount)
		}
	}
	return totals
}
