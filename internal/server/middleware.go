package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gruppe-adler/bathy-utils/internal/log"
)

// requestLogger logs every HTTP request.
func requestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			logger.Warn("request failed", append(args, "errors", c.Errors.String())...)
			return
		}
		logger.Debug("request", args...)
	}
}
