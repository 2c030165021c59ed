package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rwtnews/site/internal/pkg/metrics"
)

// Metrics records request count and latency by matched route.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveHTTP(route, c.Writer.Status(), time.Since(start))
	}
}
