package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BrianLien09/schedule-app/pkg/metrics"
)

// Metrics 記錄請求數與耗時
// path 取路由樣板（/api/v1/courses/:id），未命中路由時記為 unmatched
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
