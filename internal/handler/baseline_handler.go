package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/EduFin215/Finomik-CRM-sub001/internal/domain"
	"github.com/EduFin215/Finomik-CRM-sub001/internal/middleware"
	"github.com/EduFin215/Finomik-CRM-sub001/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// BaselineHandler handles the configured starting cash
type BaselineHandler struct {
	baselineService *service.BaselineService
}

// NewBaselineHandler creates a new BaselineHandler
func NewBaselineHandler(baselineService *service.BaselineService) *BaselineHandler {
	return &BaselineHandler{
		baselineService: baselineService,
	}
}

// BaselineResponse represents the starting cash; null when not configured
type BaselineResponse struct {
	StartingCash *string `json:"startingCash"`
}

// SetBaselineRequest represents the request body for setting the starting cash
type SetBaselineRequest struct {
	StartingCash string `json:"startingCash"`
}

// GetBaseline handles GET /api/v1/cash/baseline
func (h *BaselineHandler) GetBaseline(c echo.Context) error {
	orgID := middleware.GetOrganizationID(c)
	if orgID == uuid.Nil {
		return NewUnauthorizedError(c, "Organization required")
	}

	baseline, err := h.baselineService.GetBaseline(c.Request().Context(), orgID)
	if err != nil {
		log.Error().Err(err).Str("organization_id", orgID.String()).Msg("Failed to get cash baseline")
		return NewInternalError(c, "Failed to get starting cash")
	}

	return c.JSON(http.StatusOK, BaselineResponse{StartingCash: optionalAmount(baseline)})
}

// SetBaseline handles PUT /api/v1/cash/baseline
func (h *BaselineHandler) SetBaseline(c echo.Context) error {
	orgID := middleware.GetOrganizationID(c)
	if orgID == uuid.Nil {
		return NewUnauthorizedError(c, "Organization required")
	}

	var req SetBaselineRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	raw := strings.TrimSpace(req.StartingCash)
	if raw == "" {
		return NewValidationError(c, "Starting cash is required", []ValidationError{{Field: "startingCash", Message: "Required"}})
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return NewValidationError(c, "Invalid starting cash", []ValidationError{{Field: "startingCash", Message: "Must be a decimal amount"}})
	}

	stored, err := h.baselineService.SetBaseline(c.Request().Context(), orgID, amount)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidBaseline) {
			return NewValidationError(c, err.Error(), []ValidationError{{Field: "startingCash", Message: "Must be zero or positive with at most 2 decimal places"}})
		}
		log.Error().Err(err).Str("organization_id", orgID.String()).Msg("Failed to set cash baseline")
		return NewInternalError(c, "Failed to set starting cash")
	}

	return c.JSON(http.StatusOK, BaselineResponse{StartingCash: optionalAmount(&stored)})
}

// ClearBaseline handles DELETE /api/v1/cash/baseline
func (h *BaselineHandler) ClearBaseline(c echo.Context) error {
	orgID := middleware.GetOrganizationID(c)
	if orgID == uuid.Nil {
		return NewUnauthorizedError(c, "Organization required")
	}

	if err := h.baselineService.ClearBaseline(c.Request().Context(), orgID); err != nil {
		log.Error().Err(err).Str("organization_id", orgID.String()).Msg("Failed to clear cash baseline")
		return NewInternalError(c, "Failed to clear starting cash")
	}

	return c.NoContent(http.StatusNoContent)
}
