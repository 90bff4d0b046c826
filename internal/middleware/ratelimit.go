package middleware

import (
	"github.com/gin-gonic/gin"

	apperrors "repairdesk/internal/errors"
	"repairdesk/internal/logger"
	"repairdesk/internal/metrics"
	"repairdesk/internal/ratelimit"
)

// RateLimit rejects clients that exceed the limiter's window, keyed by
// client IP, with the flat submit envelope carrying ErrRateLimited's reason.
// Limiter failures let the request through.
func RateLimit(limiter ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			logger.Get().Warnw("rate limiter unavailable, allowing request",
				"error", err,
				"client_ip", c.ClientIP(),
				"path", c.Request.URL.Path,
			)
			c.Next()
			return
		}
		if !allowed {
			metrics.SubmitRateLimited.Inc()
			c.AbortWithStatusJSON(apperrors.ErrRateLimited.StatusCode, gin.H{"ok": false, "error": apperrors.ErrRateLimited.Reason})
			return
		}
		c.Next()
	}
}
