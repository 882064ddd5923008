package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"creditreport-backend/internal/shared/telemetry"
)

const userIDKey = "userId"

// UserIDFromContext returns the owner identifier a handler attached to the
// request, or "" when none was set. There is no auth layer; the identifier
// comes from the request body once it has been parsed.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(userIDKey)
}

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()
		reqID := RequestIDFromContext(c)

		userID, _ := c.Get(userIDKey)
		analysisID, _ := c.Get("analysisId")
		pipelineStep := ""
		if raw, ok := c.Get("pipelineStep"); ok {
			if s, ok := raw.(string); ok {
				pipelineStep = s
			}
		}

		telemetry.Info("request.complete", map[string]any{
			"request_id":    reqID,
			"method":        c.Request.Method,
			"path":          c.Request.URL.Path,
			"status":        status,
			"pipeline_step": pipelineStep,
			"duration_ms":   float64(latency.Microseconds()) / 1000.0,
			"user_id":       userID,
			"analysis_id":   analysisID,
			"client_ip":     c.ClientIP(),
			"user_agent":    c.Request.UserAgent(),
		})
	}
}
