package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/skycastapp/skycast_backend/internal/utils"
)

// pathsToSkip contains paths that should not be tracked by PostHog.
var pathsToSkip = map[string]bool{
	"/health": true,
}

// PosthogMiddleware creates a Gin middleware handler that tracks successful
// authenticated API events with PostHog.
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if posthogClient == nil || !posthogClient.IsInitialized() || pathsToSkip[c.Request.URL.Path] {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		userID, exists := GetUserIDFromContext(c)
		if !exists {
			return
		}

		// e.g. "/api/v1/preferences" -> "api_v1_preferences"
		eventName := strings.TrimPrefix(c.FullPath(), "/")
		eventName = strings.ReplaceAll(eventName, "/", "_")
		if eventName == "" {
			return
		}

		props := map[string]any{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status_code": c.Writer.Status(),
		}
		if len(c.Params) > 0 {
			params := make(map[string]string)
			for _, param := range c.Params {
				params[param.Key] = param.Value
			}
			props["params"] = params
		}

		posthogClient.Enqueue(strconv.FormatInt(userID, 10), eventName, props)
	}
}
