package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/vibast-solutions/ms-go-contacts/config"
)

// RateLimits builds the per-route request limiters. Each route gets its own
// token-bucket store keyed by client IP; a denied request is a 429 and never
// reaches the handler.
type RateLimits struct {
	cfg config.RateConfig
}

func NewRateLimits(cfg config.RateConfig) *RateLimits {
	return &RateLimits{cfg: cfg}
}

// Read allows cfg.ReadPerMinute requests per minute (list/get/search).
func (r *RateLimits) Read() echo.MiddlewareFunc {
	return perMinute(r.cfg.ReadPerMinute)
}

// Write allows cfg.WritePerMinute requests per minute (create/delete).
func (r *RateLimits) Write() echo.MiddlewareFunc {
	return perMinute(r.cfg.WritePerMinute)
}

// Profile allows one request per cfg.ProfileBurstIn (user profile routes).
func (r *RateLimits) Profile() echo.MiddlewareFunc {
	return limiter(rate.Every(r.cfg.ProfileBurstIn), 1)
}

func perMinute(n int) echo.MiddlewareFunc {
	return limiter(rate.Limit(float64(n)/60.0), n)
}

func limiter(limit rate.Limit, burst int) echo.MiddlewareFunc {
	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      limit,
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})

	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, map[string]string{
				"error": "too many requests",
			})
		},
	})
}
