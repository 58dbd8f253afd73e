package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequestLimiter is satisfied by the Redis-backed limiter. A nil limiter
// disables throttling entirely.
type RequestLimiter interface {
	Allow(ctx context.Context, key string) bool
}

// RateLimit throttles hold creation per client IP so one caller cannot sit on
// the whole calendar with disposable holds.
func RateLimit(limiter RequestLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		if !limiter.Allow(c.Request.Context(), c.ClientIP()) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}
