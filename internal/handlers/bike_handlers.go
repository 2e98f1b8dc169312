package handlers

import (
	"net/http"
	"strconv"

	"pedalgo/internal/geo"
	"pedalgo/internal/services"

	"github.com/labstack/echo/v4"
)

// BikeHandlers serves fleet discovery.
type BikeHandlers struct {
	fleetService services.FleetService
}

func NewBikeHandlers(fleetService services.FleetService) *BikeHandlers {
	return &BikeHandlers{fleetService: fleetService}
}

func (h *BikeHandlers) Nearby(c echo.Context) error {
	ctx := c.Request().Context()

	lat, err := strconv.ParseFloat(c.QueryParam("latitude"), 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Latitude and longitude are required")
	}
	lon, err := strconv.ParseFloat(c.QueryParam("longitude"), 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Latitude and longitude are required")
	}
	if !geo.ValidCoordinate(lat, lon) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid coordinates")
	}

	radius := services.DefaultNearbyRadiusMeters
	if raw := c.QueryParam("radius"); raw != "" {
		radius, err = strconv.ParseFloat(raw, 64)
		if err != nil || radius <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid radius")
		}
	}

	bikes, err := h.fleetService.FindNearby(ctx, lat, lon, radius)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to search bikes")
	}

	return c.JSON(http.StatusOK, bikes)
}
