package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/openhearth/charity-backend/internal/observability"
	"github.com/openhearth/charity-backend/internal/platform/logger"
)

// RequestLog logs each request and feeds the API metrics. The metrics
// registry may be nil (disabled); logging always happens.
func RequestLog(log *logger.Logger, m *observability.Metrics) gin.HandlerFunc {
	reqLog := log.With("middleware", "RequestLog")
	return func(c *gin.Context) {
		start := time.Now()
		m.IncInflight()

		c.Next()

		dur := time.Since(start)
		m.DecInflight()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		m.ObserveAPIRequest(c.Request.Method, route, strconv.Itoa(status), dur)

		if status >= 500 {
			reqLog.Error("request failed",
				"method", c.Request.Method,
				"route", route,
				"status", status,
				"duration_ms", dur.Milliseconds())
			return
		}
		reqLog.Debug("request",
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"duration_ms", dur.Milliseconds())
	}
}
