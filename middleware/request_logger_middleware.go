package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jamieforrest/speakyer-proc/application/ports/outbound"
)

const (
	RequestIDHeader     = "X-Request-Id"
	ContextRequestIDKey = "requestID"
)

// RequestLogger tags each request with an id, reusing the caller's X-Request-Id when
// present, and logs one line when the handler returns.
func RequestLogger(logger outbound.LoggerPort) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(ContextRequestIDKey, requestID)
		c.Writer.Header().Set(RequestIDHeader, requestID)

		start := time.Now()
		c.Next()

		fields := map[string]interface{}{
			"request_id":  requestID,
			"method":      c.Request.Method,
			"path":        c.FullPath(),
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
		}
		if len(c.Errors) > 0 {
			logger.ErrorWithFields(c.Errors.Last(), "request failed", fields)
			return
		}
		logger.InfoWithFields("request handled", fields)
	}
}
