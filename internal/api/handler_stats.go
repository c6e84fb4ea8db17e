package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetParkingStats handles GET /api/parkings/stats. The optional "ids"
// parameter is a comma-separated list; unknown ids are silently
// dropped, an empty list means all tracked facilities.
func (h *Handler) GetParkingStats(c *gin.Context) {
	ids, err := parseIDList(c.Query("ids"))
	if err != nil {
		badRequest(c, err)
		return
	}
	day, err := optionalDay(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	at, err := queryTime(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, h.parkings.GetParkingStats(ids, day, at))
}

// GetDailyParkingStats handles GET /api/parkings/stats/daily. The "day"
// parameter is required here.
func (h *Handler) GetDailyParkingStats(c *gin.Context) {
	ids, err := parseIDList(c.Query("ids"))
	if err != nil {
		badRequest(c, err)
		return
	}
	day, err := parseWeekday(c.Query("day"))
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, h.parkings.GetDailyParkingStats(ids, day))
}

// GetWeeklyParkingStats handles GET /api/parkings/stats/weekly.
func (h *Handler) GetWeeklyParkingStats(c *gin.Context) {
	ids, err := parseIDList(c.Query("ids"))
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, h.parkings.GetWeeklyParkingStats(ids))
}

// GetCollectiveDailyStats handles GET /api/parkings/stats/daily/collective.
func (h *Handler) GetCollectiveDailyStats(c *gin.Context) {
	ids, err := parseIDList(c.Query("ids"))
	if err != nil {
		badRequest(c, err)
		return
	}
	day, err := parseWeekday(c.Query("day"))
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, h.parkings.GetCollectiveDailyParkingStats(ids, day))
}

// GetCollectiveWeeklyStats handles GET /api/parkings/stats/weekly/collective.
func (h *Handler) GetCollectiveWeeklyStats(c *gin.Context) {
	ids, err := parseIDList(c.Query("ids"))
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, h.parkings.GetCollectiveWeeklyParkingStats(ids))
}

// GetParkingStatsByID handles GET /api/parkings/:id/stats. Unlike the
// bulk endpoint, an unknown id is a 404.
func (h *Handler) GetParkingStatsByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		badRequest(c, fmt.Errorf("invalid parking id %q", c.Param("id")))
		return
	}
	day, err := optionalDay(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	at, err := queryTime(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	stats, err := h.parkings.GetParkingStatsByID(c.Request.Context(), id, day, at)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetDailyParkingStatsByID handles GET /api/parkings/:id/stats/daily.
func (h *Handler) GetDailyParkingStatsByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		badRequest(c, fmt.Errorf("invalid parking id %q", c.Param("id")))
		return
	}
	day, err := parseWeekday(c.Query("day"))
	if err != nil {
		badRequest(c, err)
		return
	}

	stats, err := h.parkings.GetDailyParkingStatsByID(c.Request.Context(), id, day)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetWeeklyParkingStatsByID handles GET /api/parkings/:id/stats/weekly.
func (h *Handler) GetWeeklyParkingStatsByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		badRequest(c, fmt.Errorf("invalid parking id %q", c.Param("id")))
		return
	}

	stats, err := h.parkings.GetWeeklyParkingStatsByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
