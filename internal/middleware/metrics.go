package middleware

import (
	"strconv"

	"github.com/branchpay/teller_backend/internal/metrics"
	"github.com/gin-gonic/gin"
)

// HTTPMetrics records per-route request counts with method and status labels.
func HTTPMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			// Unmatched routes fall back to the raw path.
			route = c.Request.URL.Path
		}
		metrics.RequestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
