package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/EduFin215/Finomik-CRM-sub001/internal/domain"
	"github.com/EduFin215/Finomik-CRM-sub001/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestClassifyDue_Boundaries(t *testing.T) {
	today := testutil.Date(2026, time.October, 14)

	tests := []struct {
		offset int
		want   domain.AgingBucket
	}{
		{31, domain.AgingExcluded},
		{30, domain.AgingComingDue},
		{1, domain.AgingComingDue},
		{0, domain.AgingOverdue1To30},
		{-1, domain.AgingOverdue1To30},
		{-30, domain.AgingOverdue1To30},
		{-31, domain.AgingOverdue31To60},
		{-60, domain.AgingOverdue31To60},
		{-61, domain.AgingExcluded},
		{-365, domain.AgingExcluded},
	}

	for _, tt := range tests {
		due := today.AddDate(0, 0, tt.offset)
		assert.Equal(t, tt.want, ClassifyDue(today, due), "offset %d", tt.offset)
	}
}

func TestClassifyDue_IgnoresTimeOfDay(t *testing.T) {
	today := time.Date(2026, time.October, 14, 23, 59, 0, 0, time.UTC)
	due := time.Date(2026, time.October, 15, 0, 1, 0, 0, time.UTC)

	assert.Equal(t, domain.AgingComingDue, ClassifyDue(today, due))
}

func TestSummarizeAging(t *testing.T) {
	f := setupEngine(testutil.Date(2026, time.October, 14))

	f.obligations.AddInvoice(f.orgID, "100", f.daysFrom(10))
	f.obligations.AddInvoice(f.orgID, "50", f.daysFrom(30))
	f.obligations.AddInvoice(f.orgID, "999", f.daysFrom(31))
	f.obligations.AddInvoice(f.orgID, "200", f.daysFrom(0))
	f.obligations.AddInvoice(f.orgID, "300", f.daysFrom(-45))
	f.obligations.AddInvoice(f.orgID, "999", f.daysFrom(-61))
	f.obligations.AddInvoice(f.orgID, "999", nil)

	f.obligations.AddExpense(f.orgID, "40", f.daysFrom(5))
	f.obligations.AddExpense(f.orgID, "60", f.daysFrom(-30))
	f.obligations.AddExpense(f.orgID, "70", f.daysFrom(-60))

	summary := f.aging.SummarizeAging(context.Background(), f.orgID)

	assert.Equal(t, "150.00", summary.InvoicesComingDue.StringFixed(2))
	assert.Equal(t, "200.00", summary.InvoicesOverdue1_30.StringFixed(2))
	assert.Equal(t, "300.00", summary.InvoicesOverdue31_60.StringFixed(2))
	assert.Equal(t, "40.00", summary.ExpensesComingDue.StringFixed(2))
	assert.Equal(t, "60.00", summary.ExpensesOverdue1_30.StringFixed(2))
	assert.Equal(t, "70.00", summary.ExpensesOverdue31_60.StringFixed(2))
}

func TestSummarizeAging_EachItemInAtMostOneBucket(t *testing.T) {
	today := testutil.Date(2026, time.October, 14)

	for offset := -90; offset <= 60; offset++ {
		due := today.AddDate(0, 0, offset)
		summary := BuildAgingSummary(today, []domain.PendingInvoice{{Amount: testutil.Dec("1"), DueDate: &due}}, nil)

		total := summary.InvoicesComingDue.Add(summary.InvoicesOverdue1_30).Add(summary.InvoicesOverdue31_60)
		assert.True(t, total.LessThanOrEqual(testutil.Dec("1")), "offset %d", offset)
	}
}

func TestSummarizeAging_UpstreamFailure(t *testing.T) {
	f := setupEngine(testutil.Date(2026, time.October, 14))
	f.obligations.AddInvoice(f.orgID, "100", f.daysFrom(10))
	f.obligations.Err = errors.New("timeout")

	summary := f.aging.SummarizeAging(context.Background(), f.orgID)

	assert.True(t, summary.InvoicesComingDue.IsZero())
	assert.True(t, summary.ExpensesOverdue31_60.IsZero())
}
