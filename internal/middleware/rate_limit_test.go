package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiterWithConfig(10, 5) // 10 per minute, burst of 5
	defer rl.Stop()

	orgID := uuid.New()

	// First 5 requests should be allowed (burst)
	for i := 0; i < 5; i++ {
		if !rl.Allow(orgID) {
			t.Errorf("Request %d should be allowed", i+1)
		}
	}

	// 6th request should be rate limited (exceeded burst)
	if rl.Allow(orgID) {
		t.Error("Request 6 should be rate limited")
	}
}

func TestRateLimiter_DifferentOrganizations(t *testing.T) {
	rl := NewRateLimiterWithConfig(10, 3)
	defer rl.Stop()

	org1 := uuid.New()
	org2 := uuid.New()

	// Exhaust org1's burst
	for i := 0; i < 3; i++ {
		if !rl.Allow(org1) {
			t.Errorf("Org1 request %d should be allowed", i+1)
		}
	}

	// Org1 should be rate limited
	if rl.Allow(org1) {
		t.Error("Org1 should be rate limited")
	}

	// Org2 should still have its full burst
	for i := 0; i < 3; i++ {
		if !rl.Allow(org2) {
			t.Errorf("Org2 request %d should be allowed", i+1)
		}
	}
}

func TestRateLimiter_StopTwice(t *testing.T) {
	rl := NewRateLimiterWithConfig(10, 1)
	rl.Stop()
	rl.Stop()
}

func orgRequest(orgID uuid.UUID) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cash/forecast", nil)
	if orgID == uuid.Nil {
		return req
	}
	ctx := context.WithValue(req.Context(), OrganizationIDKey, orgID)
	return req.WithContext(ctx)
}

func TestRateLimitMiddleware_SkipsWithoutOrganization(t *testing.T) {
	e := echo.New()
	rl := NewRateLimiterWithConfig(1, 1)
	defer rl.Stop()

	handlerCalled := false
	handler := func(c echo.Context) error {
		handlerCalled = true
		return c.String(http.StatusOK, "OK")
	}

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		c := e.NewContext(orgRequest(uuid.Nil), rec)
		handlerCalled = false

		err := RateLimitMiddleware(rl)(handler)(c)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if !handlerCalled {
			t.Error("Handler should be called for requests without an organization")
		}
	}
}

func TestRateLimitMiddleware_RateLimitsOrganization(t *testing.T) {
	e := echo.New()
	rl := NewRateLimiterWithConfig(10, 2) // Small burst for testing
	defer rl.Stop()

	orgID := uuid.New()
	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	}

	// First 2 requests should succeed (burst)
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		c := e.NewContext(orgRequest(orgID), rec)

		err := RateLimitMiddleware(rl)(handler)(c)
		if err != nil {
			t.Fatalf("Request %d: Expected no error, got %v", i+1, err)
		}
		if rec.Code != http.StatusOK {
			t.Errorf("Request %d: Expected status 200, got %d", i+1, rec.Code)
		}
		if rec.Header().Get("X-RateLimit-Limit") != "10" {
			t.Errorf("Request %d: Expected X-RateLimit-Limit 10, got %q", i+1, rec.Header().Get("X-RateLimit-Limit"))
		}
	}

	// 3rd request should be rate limited
	rec := httptest.NewRecorder()
	c := e.NewContext(orgRequest(orgID), rec)

	err := RateLimitMiddleware(rl)(handler)(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("Expected status 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("Expected Retry-After header")
	}

	// Another organization is unaffected
	rec = httptest.NewRecorder()
	c = e.NewContext(orgRequest(uuid.New()), rec)
	if err := RateLimitMiddleware(rl)(handler)(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200 for other organization, got %d", rec.Code)
	}
}

func TestRateLimitMiddleware_RouteCost(t *testing.T) {
	e := echo.New()
	rl := NewRateLimiterWithConfig(10, 5)
	defer rl.Stop()

	exportRoute := "/api/v1/reports/forecast/export"
	rl.SetRouteCost(exportRoute, 4)

	orgID := uuid.New()
	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	}

	call := func(route string) int {
		rec := httptest.NewRecorder()
		c := e.NewContext(orgRequest(orgID), rec)
		c.SetPath(route)
		if err := RateLimitMiddleware(rl)(handler)(c); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		return rec.Code
	}

	if code := call(exportRoute); code != http.StatusOK {
		t.Fatalf("First export: expected status 200, got %d", code)
	}
	// one token left: a plain read fits, a second export does not
	if code := call(exportRoute); code != http.StatusTooManyRequests {
		t.Errorf("Second export: expected status 429, got %d", code)
	}
	if code := call("/api/v1/cash/forecast"); code != http.StatusOK {
		t.Errorf("Read after export: expected status 200, got %d", code)
	}
}

func TestRateLimiter_SetRouteCostClampsToBurst(t *testing.T) {
	rl := NewRateLimiterWithConfig(10, 3)
	defer rl.Stop()

	rl.SetRouteCost("/heavy", 50)
	rl.SetRouteCost("/free", 0)

	if got := rl.costOf("/heavy"); got != 3 {
		t.Errorf("Expected cost clamped to burst 3, got %d", got)
	}
	if got := rl.costOf("/free"); got != 1 {
		t.Errorf("Expected minimum cost 1, got %d", got)
	}
	if got := rl.costOf("/unknown"); got != 1 {
		t.Errorf("Expected default cost 1, got %d", got)
	}
}
