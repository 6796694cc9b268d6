package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// NewAuthLimiter builds the fixed-window limiter applied to
// credential-submission endpoints. Counters are process-local and reset on
// restart; this is a deterrent, not a hard security boundary.
func NewAuthLimiter(limit int64, window time.Duration) *limiter.Limiter {
	rate := limiter.Rate{Period: window, Limit: limit}
	return limiter.New(memory.NewStore(), rate)
}

// RateLimit creates a Gin middleware for rate limiting requests by client
// IP. It rejects before the handler runs, so a throttled login attempt never
// touches the user store.
func RateLimit(limiterInstance *limiter.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		context, err := limiterInstance.Get(c.Request.Context(), ip)
		if err != nil {
			GetLoggerFromCtx(c.Request.Context()).Error("Failed to get rate limit context", slog.String("ip", ip), slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error during rate limit check"})
			return
		}

		if context.Reached {
			GetLoggerFromCtx(c.Request.Context()).Warn("Rate limit exceeded", slog.String("ip", ip), slog.Int64("limit", context.Limit), slog.Int64("remaining_requests", context.Remaining))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many authentication attempts, please try again later"})
			return
		}

		c.Next()
	}
}
