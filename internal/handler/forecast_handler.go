package handler

import (
	"errors"
	"net/http"

	"github.com/EduFin215/Finomik-CRM-sub001/internal/domain"
	"github.com/EduFin215/Finomik-CRM-sub001/internal/middleware"
	"github.com/EduFin215/Finomik-CRM-sub001/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ForecastHandler handles cash forecast and aging HTTP requests
type ForecastHandler struct {
	forecastService *service.ForecastService
	agingService    *service.AgingService
	defaultDays     int
	maxDays         int
}

// NewForecastHandler creates a new ForecastHandler
func NewForecastHandler(forecastService *service.ForecastService, agingService *service.AgingService, defaultDays, maxDays int) *ForecastHandler {
	if maxDays <= 0 {
		maxDays = domain.MaxForecastDays
	}
	if defaultDays < 0 || defaultDays > maxDays {
		defaultDays = domain.DefaultForecastDays
	}
	return &ForecastHandler{
		forecastService: forecastService,
		agingService:    agingService,
		defaultDays:     defaultDays,
		maxDays:         maxDays,
	}
}

// ForecastResponse represents the projected cash series
type ForecastResponse struct {
	Days   int                   `json:"days"`
	Series []ForecastDayResponse `json:"series"`
}

// GetForecast handles GET /api/v1/cash/forecast
// Accepts optional days query param (default from config)
func (h *ForecastHandler) GetForecast(c echo.Context) error {
	orgID := middleware.GetOrganizationID(c)
	if orgID == uuid.Nil {
		return NewUnauthorizedError(c, "Organization required")
	}

	days, ok, err := parseHorizon(c, h.defaultDays, h.maxDays)
	if !ok {
		return err
	}

	series, err := h.forecastService.ProjectCashflow(c.Request().Context(), orgID, days)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidHorizon) {
			return NewValidationError(c, "Horizon out of range", []ValidationError{{Field: "days", Message: "Must not be negative"}})
		}
		log.Error().Err(err).Str("organization_id", orgID.String()).Int("days", days).Msg("Failed to project cashflow")
		return NewInternalError(c, "Failed to project cashflow")
	}

	return c.JSON(http.StatusOK, ForecastResponse{
		Days:   days,
		Series: toForecastResponse(series),
	})
}

// GetAging handles GET /api/v1/cash/aging
func (h *ForecastHandler) GetAging(c echo.Context) error {
	orgID := middleware.GetOrganizationID(c)
	if orgID == uuid.Nil {
		return NewUnauthorizedError(c, "Organization required")
	}

	summary := h.agingService.SummarizeAging(c.Request().Context(), orgID)
	return c.JSON(http.StatusOK, toAgingResponse(summary))
}
