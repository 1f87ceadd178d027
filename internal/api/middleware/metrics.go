package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/timmy/captionrelay/internal/metrics"
)

// Metrics records request counts and latency by matched route.
func Metrics(rec *metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		rec.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
