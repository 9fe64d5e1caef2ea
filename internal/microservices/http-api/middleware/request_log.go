package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"animehub/internal/logger"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger tags every request with an id (reusing the caller's
// X-Request-ID when present) and logs one line when it completes.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)

		started := time.Now()
		c.Next()

		status := c.Writer.Status()
		kv := []interface{}{
			"request_id", id,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"took", time.Since(started).Round(time.Millisecond).String(),
		}
		switch {
		case status >= 500:
			log.Error("request failed", kv...)
		case status >= 400:
			log.Warn("request rejected", kv...)
		default:
			log.Info("request served", kv...)
		}
	}
}
