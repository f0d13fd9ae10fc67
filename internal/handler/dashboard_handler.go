package handler

import (
	"net/http"

	"github.com/EduFin215/Finomik-CRM-sub001/internal/middleware"
	"github.com/EduFin215/Finomik-CRM-sub001/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// DashboardHandler handles dashboard-related HTTP requests
type DashboardHandler struct {
	kpiService *service.KPIService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(kpiService *service.KPIService) *DashboardHandler {
	return &DashboardHandler{
		kpiService: kpiService,
	}
}

// GetKPIs handles GET /api/v1/dashboard/kpis
func (h *DashboardHandler) GetKPIs(c echo.Context) error {
	orgID := middleware.GetOrganizationID(c)
	if orgID == uuid.Nil {
		return NewUnauthorizedError(c, "Organization required")
	}

	kpis := h.kpiService.GetKPIs(c.Request().Context(), orgID)
	return c.JSON(http.StatusOK, toKPIResponse(kpis))
}
