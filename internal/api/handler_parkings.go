package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"parking-status-backend/internal/service"
)

// GetParkings handles GET /api/parkings. Every query parameter is
// optional; present ones are ANDed together.
func (h *Handler) GetParkings(c *gin.Context) {
	var filters service.Filters

	if raw, ok := c.GetQuery("symbol"); ok {
		filters.Symbol = &raw
	}
	if raw, ok := c.GetQuery("name"); ok {
		filters.Name = &raw
	}
	if raw, ok := c.GetQuery("id"); ok {
		id, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(c, fmt.Errorf("invalid parking id %q", raw))
			return
		}
		filters.ID = &id
	}
	var err error
	if filters.Opened, err = optionalBool(c, "opened"); err != nil {
		badRequest(c, err)
		return
	}
	if filters.HasFreeSpots, err = optionalBool(c, "hasFreeSpots"); err != nil {
		badRequest(c, err)
		return
	}

	parkings, err := h.parkings.GetByParams(c.Request.Context(), filters)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, parkings)
}

// GetParkingByID handles GET /api/parkings/:id.
func (h *Handler) GetParkingByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		badRequest(c, fmt.Errorf("invalid parking id %q", c.Param("id")))
		return
	}
	opened, err := optionalBool(c, "opened")
	if err != nil {
		badRequest(c, err)
		return
	}

	parking, err := h.parkings.GetByID(c.Request.Context(), id, opened)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, parking)
}

// GetParkingByName handles GET /api/parkings/name/:name.
func (h *Handler) GetParkingByName(c *gin.Context) {
	opened, err := optionalBool(c, "opened")
	if err != nil {
		badRequest(c, err)
		return
	}
	parking, err := h.parkings.GetByName(c.Request.Context(), c.Param("name"), opened)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, parking)
}

// GetParkingBySymbol handles GET /api/parkings/symbol/:symbol.
func (h *Handler) GetParkingBySymbol(c *gin.Context) {
	opened, err := optionalBool(c, "opened")
	if err != nil {
		badRequest(c, err)
		return
	}
	parking, err := h.parkings.GetBySymbol(c.Request.Context(), c.Param("symbol"), opened)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, parking)
}

// GetFreeParkings handles GET /api/parkings/free.
func (h *Handler) GetFreeParkings(c *gin.Context) {
	opened, err := optionalBool(c, "opened")
	if err != nil {
		badRequest(c, err)
		return
	}
	parkings, err := h.parkings.GetAllWithFreeSpots(c.Request.Context(), opened)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, parkings)
}

// GetMostFreeParking handles GET /api/parkings/free/most.
func (h *Handler) GetMostFreeParking(c *gin.Context) {
	opened, err := optionalBool(c, "opened")
	if err != nil {
		badRequest(c, err)
		return
	}
	parking, err := h.parkings.GetWithTheMostFreeSpots(c.Request.Context(), opened)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, parking)
}

// GetClosestParking handles GET /api/parkings/closest?address=...
func (h *Handler) GetClosestParking(c *gin.Context) {
	address := c.Query("address")
	if address == "" {
		badRequest(c, fmt.Errorf("address query parameter is required"))
		return
	}
	parking, err := h.parkings.GetClosestParking(c.Request.Context(), address)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, parking)
}

func optionalBool(c *gin.Context, name string) (*bool, error) {
	raw, ok := c.GetQuery(name)
	if !ok {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q", name, raw)
	}
	return &v, nil
}
