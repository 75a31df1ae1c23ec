package middleware

import (
	"time"

	"github.com/Seer7-SWE/PayTM-clone/pkg"
	"github.com/Seer7-SWE/PayTM-clone/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TraceID returns Gin middleware to handle trace IDs for observability.
// Every request gets one access log line tagged with its trace id.
func TraceID(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		traceID := c.Request.Header.Get(pkg.HeaderTraceId)
		if utils.IsBlank(traceID) {
			traceID = uuid.New().String()
		}
		c.Set(pkg.TraceId, traceID)
		c.Writer.Header().Set(pkg.HeaderTraceId, traceID)

		c.Next()

		logger.Info("http_request",
			zap.String(pkg.TraceId, traceID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
