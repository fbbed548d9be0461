package middleware

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"unipool/internal/observability"
)

// Logging emits one structured line per request and feeds the request
// counters. Paths are labelled by route template, not raw URL, so metric
// cardinality stays bounded.
func Logging(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(started)

		observability.HTTPRequestsTotal.
			WithLabelValues(c.Request.Method, path, strconv.Itoa(status)).Inc()
		observability.HTTPRequestDuration.
			WithLabelValues(c.Request.Method, path, strconv.Itoa(status)).
			Observe(elapsed.Seconds())

		log.Info("request",
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"elapsed_ms", elapsed.Milliseconds(),
		)
	}
}
