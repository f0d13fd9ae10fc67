package handler

import (
	"github.com/EduFin215/Finomik-CRM-sub001/internal/middleware"
	"github.com/labstack/echo/v4"
)

// ExportRequestCost is how many rate limit tokens one report export consumes
const ExportRequestCost = 10

// Handlers groups every HTTP handler served under /api/v1
type Handlers struct {
	Forecast  *ForecastHandler
	Baseline  *BaselineHandler
	Dashboard *DashboardHandler
	Report    *ReportHandler
	WebSocket *WebSocketHandler
}

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, h Handlers) {
	// API version 1
	api := e.Group("/api/v1")

	// WebSocket authenticates with a query token, not the Authorization header
	if h.WebSocket != nil {
		api.GET("/ws", h.WebSocket.HandleWS)
	}

	protected := []echo.MiddlewareFunc{authMiddleware.Authenticate()}
	if rateLimiter != nil {
		rateLimiter.SetRouteCost("/api/v1/reports/forecast/export", ExportRequestCost)
		protected = append(protected, middleware.RateLimitMiddleware(rateLimiter))
	}

	// Cash routes (protected)
	cash := api.Group("/cash", protected...)
	cash.GET("/forecast", h.Forecast.GetForecast)
	cash.GET("/aging", h.Forecast.GetAging)
	cash.GET("/baseline", h.Baseline.GetBaseline)
	cash.PUT("/baseline", h.Baseline.SetBaseline)
	cash.DELETE("/baseline", h.Baseline.ClearBaseline)

	// Dashboard routes (protected)
	dashboard := api.Group("/dashboard", protected...)
	dashboard.GET("/kpis", h.Dashboard.GetKPIs)

	// Report routes (protected)
	reports := api.Group("/reports", protected...)
	reports.GET("/overview", h.Report.GetOverview)
	reports.POST("/forecast/export", h.Report.ExportForecast)
}
