package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gitaufar/technoday-sub001/internal/shared/telemetry"
)

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

		fields := map[string]any{
			"request_id": RequestIDFromContext(c),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     status,
			"latency_ms": latency.Milliseconds(),
		}
		if userID := UserIDFromContext(c); userID != "" {
			fields["user_id"] = userID
		}
		if orgID := OrgIDFromContext(c); orgID != "" {
			fields["org_id"] = orgID
		}
		if contractID, ok := c.Get("contractId"); ok {
			fields["contract_id"] = contractID
		}

		if status >= 500 {
			telemetry.Error("http.request", fields)
			return
		}
		telemetry.Info("http.request", fields)
	}
}
