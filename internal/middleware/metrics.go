package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gym-admin-console/internal/service"
	"github.com/noah-isme/gym-admin-console/internal/session"
)

// Metrics records the latency of every routed request and refreshes the live
// session gauge from registry. Requests to skip paths, such as the scrape
// endpoint itself, are not observed.
func Metrics(metricsSvc *service.MetricsService, registry *session.Registry, skip ...string) gin.HandlerFunc {
	skipped := make(map[string]struct{}, len(skip))
	for _, path := range skip {
		skipped[path] = struct{}{}
	}

	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		if _, ok := skipped[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
		if registry != nil {
			metricsSvc.SetActiveSessions(registry.Len())
		}
	}
}
