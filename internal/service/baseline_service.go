package service

import (
	"context"
	"fmt"

	"github.com/EduFin215/Finomik-CRM-sub001/internal/domain"
	"github.com/EduFin215/Finomik-CRM-sub001/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BaselineService manages an organization's configured starting cash.
// Unlike the readers it propagates storage errors: a failed write must be visible to the caller.
type BaselineService struct {
	baselineRepo   domain.BaselineRepository
	eventPublisher websocket.EventPublisher
}

// NewBaselineService creates a new BaselineService
func NewBaselineService(baselineRepo domain.BaselineRepository) *BaselineService {
	return &BaselineService{baselineRepo: baselineRepo}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *BaselineService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *BaselineService) publishEvent(orgID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(orgID, event)
	}
}

// GetBaseline returns the configured starting cash, nil when none is set
func (s *BaselineService) GetBaseline(ctx context.Context, orgID uuid.UUID) (*decimal.Decimal, error) {
	baseline, err := s.baselineRepo.GetCashBaseline(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("get cash baseline: %w", err)
	}
	return baseline, nil
}

// SetBaseline validates and stores a starting cash amount
func (s *BaselineService) SetBaseline(ctx context.Context, orgID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	if err := ValidateBaseline(amount); err != nil {
		return decimal.Zero, err
	}

	if err := s.baselineRepo.SetCashBaseline(ctx, orgID, amount); err != nil {
		return decimal.Zero, fmt.Errorf("set cash baseline: %w", err)
	}

	s.publishEvent(orgID, websocket.BaselineUpdated(map[string]interface{}{
		"startingCash": amount.StringFixed(2),
	}))
	return amount, nil
}

// ClearBaseline removes the starting cash so cash position becomes unknown again
func (s *BaselineService) ClearBaseline(ctx context.Context, orgID uuid.UUID) error {
	if err := s.baselineRepo.ClearCashBaseline(ctx, orgID); err != nil {
		return fmt.Errorf("clear cash baseline: %w", err)
	}

	s.publishEvent(orgID, websocket.BaselineCleared(map[string]interface{}{
		"startingCash": nil,
	}))
	return nil
}

// ValidateBaseline rejects negative amounts and sub-cent precision
func ValidateBaseline(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: must not be negative", domain.ErrInvalidBaseline)
	}
	if !amount.Equal(amount.Round(domain.MaxBaselineDecimalPlaces)) {
		return fmt.Errorf("%w: at most %d decimal places", domain.ErrInvalidBaseline, domain.MaxBaselineDecimalPlaces)
	}
	return nil
}
