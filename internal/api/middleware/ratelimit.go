package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/closerhq/agency-dashboard/internal/core/domain"
)

const limiterIdleExpiry = 3 * time.Minute

// RateLimit applies a token bucket per principal, or per client IP before
// authentication.
func RateLimit(rps float64, burst int) echo.MiddlewareFunc {
	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(rps),
		Burst:     burst,
		ExpiresIn: limiterIdleExpiry,
	})

	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			if p, ok := PrincipalFrom(c); ok {
				return "user:" + p.ID, nil
			}
			return "ip:" + c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return domain.AuthenticationError("unable to identify caller")
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return domain.NewError(domain.ErrRateLimited, "too many requests, retry later")
		},
	})
}
