package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/EduFin215/Finomik-CRM-sub001/internal/domain"
	"github.com/EduFin215/Finomik-CRM-sub001/internal/middleware"
	"github.com/EduFin215/Finomik-CRM-sub001/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ReportHandler handles report HTTP requests
type ReportHandler struct {
	reportService *service.ReportService
	defaultDays   int
	maxDays       int
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *service.ReportService, defaultDays, maxDays int) *ReportHandler {
	if maxDays <= 0 {
		maxDays = domain.MaxForecastDays
	}
	if defaultDays < 0 || defaultDays > maxDays {
		defaultDays = domain.DefaultForecastDays
	}
	return &ReportHandler{
		reportService: reportService,
		defaultDays:   defaultDays,
		maxDays:       maxDays,
	}
}

// OverviewResponse represents the cash report overview
type OverviewResponse struct {
	GeneratedFor      string                `json:"generatedFor"`
	KPIs              KPIResponse           `json:"kpis"`
	Aging             AgingResponse         `json:"aging"`
	Forecast          []ForecastDayResponse `json:"forecast"`
	LowestPoint       *ForecastDayResponse  `json:"lowestPoint"`
	FirstNegativeDate *string               `json:"firstNegativeDate"`
	RunwayMonths      *string               `json:"runwayMonths"`
}

// ExportResponse represents an exported report download
type ExportResponse struct {
	ObjectPath string `json:"objectPath"`
	URL        string `json:"url"`
	ExpiresAt  string `json:"expiresAt"`
}

// GetOverview handles GET /api/v1/reports/overview
func (h *ReportHandler) GetOverview(c echo.Context) error {
	orgID := middleware.GetOrganizationID(c)
	if orgID == uuid.Nil {
		return NewUnauthorizedError(c, "Organization required")
	}

	days, ok, err := parseHorizon(c, h.defaultDays, h.maxDays)
	if !ok {
		return err
	}

	overview, err := h.reportService.Overview(c.Request().Context(), orgID, days)
	if err != nil {
		log.Error().Err(err).Str("organization_id", orgID.String()).Int("days", days).Msg("Failed to build report overview")
		return NewInternalError(c, "Failed to build report")
	}

	resp := OverviewResponse{
		GeneratedFor:      overview.GeneratedFor.Format(domain.DateLayout),
		KPIs:              toKPIResponse(overview.KPIs),
		Aging:             toAgingResponse(overview.Aging),
		Forecast:          toForecastResponse(overview.Forecast),
		FirstNegativeDate: optionalDate(overview.FirstNegativeDate),
	}
	if overview.LowestPoint != nil {
		resp.LowestPoint = &ForecastDayResponse{
			Date:          overview.LowestPoint.Date.Format(domain.DateLayout),
			ProjectedCash: overview.LowestPoint.ProjectedCash.StringFixed(2),
		}
	}
	if overview.RunwayMonths != nil {
		runway := overview.RunwayMonths.StringFixed(1)
		resp.RunwayMonths = &runway
	}

	return c.JSON(http.StatusOK, resp)
}

// ExportForecast handles POST /api/v1/reports/forecast/export
func (h *ReportHandler) ExportForecast(c echo.Context) error {
	orgID := middleware.GetOrganizationID(c)
	if orgID == uuid.Nil {
		return NewUnauthorizedError(c, "Organization required")
	}

	days, ok, err := parseHorizon(c, h.defaultDays, h.maxDays)
	if !ok {
		return err
	}

	export, err := h.reportService.ExportForecast(c.Request().Context(), orgID, days)
	if err != nil {
		if errors.Is(err, domain.ErrReportStorageUnavailable) {
			return NewServiceUnavailableError(c, "Report export is not configured")
		}
		log.Error().Err(err).Str("organization_id", orgID.String()).Int("days", days).Msg("Failed to export forecast")
		return NewInternalError(c, "Failed to export forecast")
	}

	return c.JSON(http.StatusCreated, ExportResponse{
		ObjectPath: export.ObjectPath,
		URL:        export.URL,
		ExpiresAt:  export.ExpiresAt.Format(time.RFC3339),
	})
}
