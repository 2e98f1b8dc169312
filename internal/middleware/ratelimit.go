package middleware

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"pedalgo/internal/caching"

	"github.com/labstack/echo/v4"
)

// RateLimit throttles a route per client IP using the redis counter in the
// cache service. The limiter fails open when redis is unreachable.
func RateLimit(cacheSvc caching.CacheService, limit int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := fmt.Sprintf("%s:%s", c.Path(), c.RealIP())
			limited, err := cacheSvc.IsRateLimited(c.Request().Context(), key, limit, window)
			if err != nil {
				log.Printf("WARN: rate limiter unavailable for %s: %v", key, err)
				return next(c)
			}
			if limited {
				return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests")
			}
			return next(c)
		}
	}
}
