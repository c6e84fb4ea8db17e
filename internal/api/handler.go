package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "parking-status-backend/internal/errors"
	"parking-status-backend/internal/model"
	"parking-status-backend/internal/service"
	"parking-status-backend/internal/telemetry"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	parkings  *service.ParkingService
	telemetry *telemetry.Service
	logger    *zap.Logger
}

// NewHandler creates a new API handler.
func NewHandler(parkings *service.ParkingService, telemetry *telemetry.Service, logger *zap.Logger) *Handler {
	return &Handler{
		parkings:  parkings,
		telemetry: telemetry,
		logger:    logger,
	}
}

// respondError maps a service error onto an HTTP status and JSON body.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := apperrors.StatusCode(err)
	if status >= 500 {
		h.logger.Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// parseWeekday accepts English weekday names, case-insensitively.
func parseWeekday(s string) (time.Weekday, error) {
	switch strings.ToLower(s) {
	case "sunday":
		return time.Sunday, nil
	case "monday":
		return time.Monday, nil
	case "tuesday":
		return time.Tuesday, nil
	case "wednesday":
		return time.Wednesday, nil
	case "thursday":
		return time.Thursday, nil
	case "friday":
		return time.Friday, nil
	case "saturday":
		return time.Saturday, nil
	}
	return 0, fmt.Errorf("unknown day of week: %q", s)
}

func parseIDList(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	ids := make([]int, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid parking id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// optionalDay parses the "day" query parameter, nil when absent.
func optionalDay(c *gin.Context) (*time.Weekday, error) {
	raw, ok := c.GetQuery("day")
	if !ok {
		return nil, nil
	}
	day, err := parseWeekday(raw)
	if err != nil {
		return nil, err
	}
	return &day, nil
}

// queryTime parses the "time" query parameter. Point-in-time stats are
// meaningless without a clock time, so an absent parameter is an error.
func queryTime(c *gin.Context) (model.ClockTime, error) {
	raw, ok := c.GetQuery("time")
	if !ok {
		return 0, fmt.Errorf("time query parameter is required")
	}
	return model.ParseClockTime(raw)
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
