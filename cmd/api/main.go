package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/EduFin215/Finomik-CRM-sub001/internal/config"
	"github.com/EduFin215/Finomik-CRM-sub001/internal/handler"
	"github.com/EduFin215/Finomik-CRM-sub001/internal/middleware"
	"github.com/EduFin215/Finomik-CRM-sub001/internal/repository/postgres"
	"github.com/EduFin215/Finomik-CRM-sub001/internal/repository/storage"
	"github.com/EduFin215/Finomik-CRM-sub001/internal/service"
	"github.com/EduFin215/Finomik-CRM-sub001/internal/websocket"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// Verify database connection
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	// Initialize repositories
	ledgerRepo := postgres.NewLedgerRepository(pool)
	obligationRepo := postgres.NewObligationRepository(pool)
	baselineRepo := postgres.NewBaselineRepository(pool)
	organizationRepo := postgres.NewOrganizationRepository(pool)

	// Initialize WebSocket hub
	hub := websocket.NewHub()

	// Initialize services
	calendar := service.NewCalendar(cfg.Forecast.Location())
	ledgerReader := service.NewLedgerReader(ledgerRepo, cfg.Forecast.UpstreamTimeout)
	obligationReader := service.NewObligationReader(obligationRepo, baselineRepo, cfg.Forecast.UpstreamTimeout)

	forecastService := service.NewForecastService(ledgerReader, obligationReader, calendar)
	agingService := service.NewAgingService(obligationReader, calendar)
	kpiService := service.NewKPIService(ledgerReader, obligationReader, forecastService, calendar)
	reportService := service.NewReportService(forecastService, agingService, kpiService, calendar)
	baselineService := service.NewBaselineService(baselineRepo)
	baselineService.SetEventPublisher(hub)

	// Report storage is optional
	if cfg.S3.Enabled() {
		store, err := storage.NewS3ReportStore(context.Background(), cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize report storage")
		}
		reportService.SetReportStore(store)
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("Report export enabled")
	} else {
		log.Warn().Msg("S3_BUCKET not set, report export disabled")
	}

	// Start dashboard refresh worker
	var refreshWorker *service.RefreshWorker
	if cfg.Refresh.Enabled {
		refreshWorker = service.NewRefreshWorker(kpiService, organizationRepo, hub, log.Logger, service.RefreshWorkerConfig{
			Schedule: cfg.Refresh.Schedule,
			Location: cfg.Forecast.Location(),
		})
		if err := refreshWorker.Start(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("Failed to start refresh worker")
		}
	}

	// Initialize auth middleware
	authMiddleware, err := middleware.NewAuthMiddleware(cfg.Auth0Domain, cfg.Auth0Audience, organizationRepo)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create auth middleware")
	}

	rateLimiter := middleware.NewRateLimiterWithConfig(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)

	wsValidator, err := websocket.NewAuth0JWTValidator(cfg.Auth0Domain, cfg.Auth0Audience, organizationRepo)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create WebSocket validator")
	}

	wsHandler := handler.NewWebSocketHandler(hub, wsValidator, cfg.CORSOrigins)
	wsHandler.SetSnapshot(func(ctx context.Context, orgID uuid.UUID) websocket.Event {
		return websocket.DashboardRefreshed(service.KPIPayload(kpiService.GetKPIs(ctx, orgID)))
	})

	// Initialize handlers
	handlers := handler.Handlers{
		Forecast:  handler.NewForecastHandler(forecastService, agingService, cfg.Forecast.DefaultDays, cfg.Forecast.MaxDays),
		Baseline:  handler.NewBaselineHandler(baselineService),
		Dashboard: handler.NewDashboardHandler(kpiService),
		Report:    handler.NewReportHandler(reportService, cfg.Forecast.DefaultDays, cfg.Forecast.MaxDays),
		WebSocket: wsHandler,
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Register API routes
	handler.RegisterRoutes(e, authMiddleware, rateLimiter, handlers)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Str("timezone", cfg.Forecast.TimeZone).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	if refreshWorker != nil {
		refreshWorker.Stop()
	}
	rateLimiter.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
