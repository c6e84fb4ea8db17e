package mw

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"parking-status-backend/internal/model"
	"parking-status-backend/internal/telemetry"
)

// Telemetry records every handled request into the telemetry store.
// Recording failures are logged and never fail the request.
func Telemetry(store telemetry.Store, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			// Unrouted request, keep the raw path so 404s still show up.
			endpoint = c.Request.URL.Path
		}
		rec := model.RequestRecord{
			Timestamp:  start,
			Method:     c.Request.Method,
			Endpoint:   endpoint,
			StatusCode: c.Writer.Status(),
			DurationMS: time.Since(start).Milliseconds(),
		}
		if err := store.Record(c.Request.Context(), rec); err != nil {
			logger.Warn("failed to record request telemetry",
				zap.String("endpoint", rec.Endpoint),
				zap.Error(err))
		}
	}
}
