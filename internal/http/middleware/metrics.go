package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"recordstore/internal/metrics"
)

func Metrics(m *metrics.Prometheus) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
