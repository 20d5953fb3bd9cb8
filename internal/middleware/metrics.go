package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smunity/smunity/pkg/metrics"
)

// Metrics observes per-request latency labelled by method, route template,
// and status. Unmatched requests fall back to the raw path so 404 probes are
// still visible.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		metrics.APILatency.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
