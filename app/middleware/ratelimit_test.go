package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vibast-solutions/ms-go-contacts/app/middleware"
	"github.com/vibast-solutions/ms-go-contacts/config"

	"github.com/labstack/echo/v4"
)

func hitLimited(t *testing.T, handler echo.HandlerFunc) int {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
	req.RemoteAddr = "198.51.100.7:1234"
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec.Code
}

func TestRateLimits_Read(t *testing.T) {
	limits := middleware.NewRateLimits(config.RateConfig{
		ReadPerMinute:  2,
		WritePerMinute: 1,
		ProfileBurstIn: 20 * time.Second,
	})

	handler := limits.Read()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	// The burst covers the per-minute allowance; the next request over it
	// is denied without reaching the handler.
	for i := 0; i < 2; i++ {
		if code := hitLimited(t, handler); code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, code)
		}
	}
	if code := hitLimited(t, handler); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 over the limit, got %d", code)
	}
}

func TestRateLimits_Profile(t *testing.T) {
	limits := middleware.NewRateLimits(config.RateConfig{
		ReadPerMinute:  10,
		WritePerMinute: 5,
		ProfileBurstIn: 20 * time.Second,
	})

	handler := limits.Profile()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	if code := hitLimited(t, handler); code != http.StatusOK {
		t.Fatalf("expected 200 on first request, got %d", code)
	}
	if code := hitLimited(t, handler); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 inside the window, got %d", code)
	}
}
