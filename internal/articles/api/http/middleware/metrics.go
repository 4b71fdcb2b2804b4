package middleware

import (
	"strconv"

	"github.com/DenisKhanov/CandleArticles/internal/articles/metrics"
	"github.com/gin-gonic/gin"
)

// Metrics counts requests by route and status.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unknown"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
