package respond

import (
	"github.com/gin-gonic/gin"

	"creditreport-backend/internal/shared/telemetry"
)

// StatusSuccess and StatusError are the only values the wire envelope carries.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope is the uniform response body for every endpoint.
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Summary any    `json:"summary,omitempty"`
}

// Success sends a success envelope with optional data and summary payloads.
func Success(c *gin.Context, message string, data, summary any) {
	JSON(c, 200, Envelope{
		Status:  StatusSuccess,
		Message: message,
		Data:    data,
		Summary: summary,
	})
}

// Error sends an error envelope and logs the failure with request context.
func Error(c *gin.Context, status int, message string) {
	fields := map[string]any{
		"status":     status,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if userID := c.GetString("userId"); userID != "" {
		fields["user_id"] = userID
	}
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, Envelope{
		Status:  StatusError,
		Message: message,
	})
}
