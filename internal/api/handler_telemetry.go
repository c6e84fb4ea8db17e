package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// requestWindow parses the optional start/end RFC 3339 query
// parameters, defaulting to the last 24 hours.
func requestWindow(c *gin.Context) (time.Time, time.Time, error) {
	end := time.Now()
	start := end.Add(-24 * time.Hour)

	if raw, ok := c.GetQuery("start"); ok {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start time %q", raw)
		}
		start = parsed
	}
	if raw, ok := c.GetQuery("end"); ok {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end time %q", raw)
		}
		end = parsed
	}
	if !start.Before(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("start must be before end")
	}
	return start, end, nil
}

// GetRequestStats handles GET /api/requests/stats.
func (h *Handler) GetRequestStats(c *gin.Context) {
	start, end, err := requestWindow(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	stats, err := h.telemetry.BasicStats(c.Request.Context(), start, end)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetRequestPeakTimes handles GET /api/requests/peaks. The "window"
// parameter is the bucket length in minutes, one hour by default.
func (h *Handler) GetRequestPeakTimes(c *gin.Context) {
	start, end, err := requestWindow(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	windowMinutes := 60
	if raw, ok := c.GetQuery("window"); ok {
		windowMinutes, err = strconv.Atoi(raw)
		if err != nil || windowMinutes <= 0 {
			badRequest(c, fmt.Errorf("invalid window length %q", raw))
			return
		}
	}

	peaks, err := h.telemetry.PeakTimes(c.Request.Context(), start, end, windowMinutes)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, peaks)
}
