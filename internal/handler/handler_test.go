package handler

import (
	"context"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/EduFin215/Finomik-CRM-sub001/internal/middleware"
	"github.com/EduFin215/Finomik-CRM-sub001/internal/service"
	"github.com/EduFin215/Finomik-CRM-sub001/internal/testutil"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// setupAuthContextWithOrganization sets up the context the auth middleware would produce
func setupAuthContextWithOrganization(c echo.Context, auth0ID string, orgID uuid.UUID) {
	claims := &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Subject: auth0ID,
		},
		CustomClaims: &middleware.CustomClaims{
			Email: "test@example.com",
			Name:  "Test User",
		},
	}
	ctx := context.WithValue(c.Request().Context(), middleware.ClaimsKey, claims)
	ctx = context.WithValue(ctx, middleware.Auth0IDKey, auth0ID)
	if orgID != uuid.Nil {
		ctx = context.WithValue(ctx, middleware.OrganizationIDKey, orgID)
	}
	c.SetRequest(c.Request().WithContext(ctx))
}

type handlerFixture struct {
	e           *echo.Echo
	orgID       uuid.UUID
	today       time.Time
	ledger      *testutil.MockLedgerRepository
	obligations *testutil.MockObligationRepository
	baselines   *testutil.MockBaselineRepository
	store       *testutil.MockReportStore
	reports     *service.ReportService

	forecast  *ForecastHandler
	baseline  *BaselineHandler
	dashboard *DashboardHandler
	report    *ReportHandler
}

func setupHandlers(today time.Time) *handlerFixture {
	ledgerRepo := testutil.NewMockLedgerRepository()
	obligationRepo := testutil.NewMockObligationRepository()
	baselineRepo := testutil.NewMockBaselineRepository()
	store := testutil.NewMockReportStore()

	calendar := service.NewFixedCalendar(today)
	ledger := service.NewLedgerReader(ledgerRepo, time.Second)
	obligations := service.NewObligationReader(obligationRepo, baselineRepo, time.Second)

	forecastService := service.NewForecastService(ledger, obligations, calendar)
	agingService := service.NewAgingService(obligations, calendar)
	kpiService := service.NewKPIService(ledger, obligations, forecastService, calendar)
	reportService := service.NewReportService(forecastService, agingService, kpiService, calendar)
	reportService.SetReportStore(store)

	return &handlerFixture{
		e:           echo.New(),
		orgID:       uuid.New(),
		today:       today,
		ledger:      ledgerRepo,
		obligations: obligationRepo,
		baselines:   baselineRepo,
		store:       store,
		reports:     reportService,
		forecast:    NewForecastHandler(forecastService, agingService, 90, 365),
		baseline:    NewBaselineHandler(service.NewBaselineService(baselineRepo)),
		dashboard:   NewDashboardHandler(kpiService),
		report:      NewReportHandler(reportService, 90, 365),
	}
}

// authedContext builds an authenticated request context for the fixture organization
func (f *handlerFixture) authedContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := f.e.NewContext(req, rec)
	setupAuthContextWithOrganization(c, "auth0|test", f.orgID)
	return c, rec
}
