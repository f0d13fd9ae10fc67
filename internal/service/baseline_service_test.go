package service

import (
	"context"
	"errors"
	"testing"

	"github.com/EduFin215/Finomik-CRM-sub001/internal/domain"
	"github.com/EduFin215/Finomik-CRM-sub001/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupBaselineService() (*BaselineService, *testutil.MockBaselineRepository, *testutil.MockEventPublisher) {
	repo := testutil.NewMockBaselineRepository()
	publisher := testutil.NewMockEventPublisher()
	svc := NewBaselineService(repo)
	svc.SetEventPublisher(publisher)
	return svc, repo, publisher
}

func TestBaselineService_SetAndGet(t *testing.T) {
	svc, _, publisher := setupBaselineService()
	orgID := uuid.New()

	baseline, err := svc.GetBaseline(context.Background(), orgID)
	require.NoError(t, err)
	assert.Nil(t, baseline)

	stored, err := svc.SetBaseline(context.Background(), orgID, testutil.Dec("1000.50"))
	require.NoError(t, err)
	assert.Equal(t, "1000.50", stored.StringFixed(2))

	baseline, err = svc.GetBaseline(context.Background(), orgID)
	require.NoError(t, err)
	require.NotNil(t, baseline)
	assert.True(t, baseline.Equal(testutil.Dec("1000.50")))

	events := publisher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, orgID, events[0].OrgID)
	assert.Equal(t, "baseline.updated", events[0].Event.Type)
}

func TestBaselineService_SetRejectsInvalid(t *testing.T) {
	tests := []struct {
		name   string
		amount string
	}{
		{"negative", "-1"},
		{"sub-cent precision", "10.001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, publisher := setupBaselineService()
			orgID := uuid.New()

			_, err := svc.SetBaseline(context.Background(), orgID, testutil.Dec(tt.amount))

			assert.ErrorIs(t, err, domain.ErrInvalidBaseline)
			assert.Empty(t, repo.Baselines)
			assert.Empty(t, publisher.Events())
		})
	}
}

func TestValidateBaseline(t *testing.T) {
	assert.NoError(t, ValidateBaseline(testutil.Dec("0")))
	assert.NoError(t, ValidateBaseline(testutil.Dec("10.10")))
	assert.NoError(t, ValidateBaseline(testutil.Dec("10.100")))
	assert.ErrorIs(t, ValidateBaseline(testutil.Dec("0.001")), domain.ErrInvalidBaseline)
	assert.ErrorIs(t, ValidateBaseline(testutil.Dec("-0.01")), domain.ErrInvalidBaseline)
}

func TestBaselineService_Clear(t *testing.T) {
	svc, repo, publisher := setupBaselineService()
	orgID := uuid.New()
	repo.SetBaseline(orgID, "250")

	require.NoError(t, svc.ClearBaseline(context.Background(), orgID))

	baseline, err := svc.GetBaseline(context.Background(), orgID)
	require.NoError(t, err)
	assert.Nil(t, baseline)

	events := publisher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "baseline.cleared", events[0].Event.Type)
}

func TestBaselineService_PropagatesErrors(t *testing.T) {
	svc, repo, publisher := setupBaselineService()
	orgID := uuid.New()
	storeErr := errors.New("connection refused")
	repo.Err = storeErr

	_, err := svc.GetBaseline(context.Background(), orgID)
	assert.ErrorIs(t, err, storeErr)

	_, err = svc.SetBaseline(context.Background(), orgID, testutil.Dec("10"))
	assert.ErrorIs(t, err, storeErr)

	err = svc.ClearBaseline(context.Background(), orgID)
	assert.ErrorIs(t, err, storeErr)

	assert.Empty(t, publisher.Events())
}

func TestBaselineService_NoPublisher(t *testing.T) {
	svc := NewBaselineService(testutil.NewMockBaselineRepository())

	_, err := svc.SetBaseline(context.Background(), uuid.New(), testutil.Dec("10"))
	assert.NoError(t, err)
}
