// internal/middleware/metrics.go
package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/campus-marketplace/internal/metrics"
)

// Metrics records request counts and latency by route template.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		done := metrics.RequestStarted(c.Request.Method, c.FullPath())
		c.Next()
		done(strconv.Itoa(c.Writer.Status()))
	}
}
