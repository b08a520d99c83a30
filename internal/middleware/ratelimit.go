package middleware

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"fintrack/internal/cache"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
)

// RateLimiter consumes one request's worth of quota for a client key.
type RateLimiter interface {
	Check(ctx context.Context, key string) (*cache.RateLimitResult, error)
}

// RateLimit returns middleware that throttles requests per client IP.
// Limiter failures let the request through.
func RateLimit(limiter RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		result, err := limiter.Check(c.Request.Context(), ip)
		if err != nil {
			logger.Get().Errorw("rate limit check failed",
				"error", err,
				"path", c.Request.URL.Path,
			)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
		if !result.Allowed {
			logger.Get().Warnw("rate limit exceeded",
				"path", c.Request.URL.Path,
				"retry_after_seconds", int64(result.RetryAfter.Seconds()),
				"request_id", c.GetString(RequestIDKey),
			)
			c.Header("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())))
			abortWithError(c, apperrors.ErrRateLimited)
			return
		}

		c.Next()
	}
}
