package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// HandlerKey is the gin context key a handler served outside the route tree
// (NoRoute, proxies) sets to name itself in HTTP metrics.
const HandlerKey = "metrics.handler"

// GinMiddleware records request count and latency per handler, method and status.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		handler := handlerLabel(c)
		status := strconv.Itoa(c.Writer.Status())
		HTTPRequestDuration.WithLabelValues(handler, c.Request.Method, status).Observe(time.Since(start).Seconds())
		HTTPRequestsTotal.WithLabelValues(handler, c.Request.Method, status).Inc()
	}
}

func handlerLabel(c *gin.Context) string {
	if path := c.FullPath(); path != "" {
		return path
	}
	if name := c.GetString(HandlerKey); name != "" {
		return name
	}
	return "unknown"
}
