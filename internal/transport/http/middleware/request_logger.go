package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"gopherai-tutor/internal/logger"
)

// RequestLogger logs one line per request through the application logger.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	log = logger.OrNop(log).With("component", "http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		kv := []interface{}{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
		}
		if len(c.Errors) > 0 {
			kv = append(kv, "errors", c.Errors.String())
		}
		switch {
		case c.Writer.Status() >= 500:
			log.Error("request failed", kv...)
		default:
			log.Info("request", kv...)
		}
	}
}
