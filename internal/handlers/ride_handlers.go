package handlers

import (
	"errors"
	"net/http"
	"time"

	"pedalgo/internal/common"
	"pedalgo/internal/geo"
	"pedalgo/internal/models"
	"pedalgo/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RideHandlers manages the scheduled-ride registry.
type RideHandlers struct {
	rideService services.RideService
}

func NewRideHandlers(rideService services.RideService) *RideHandlers {
	return &RideHandlers{rideService: rideService}
}

// ScheduleRideRequest represents the scheduling payload.
type ScheduleRideRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	DateTime  string  `json:"date_time"`
}

func (h *RideHandlers) ScheduleRide(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.UserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}

	var req ScheduleRideRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if !geo.ValidCoordinate(req.Latitude, req.Longitude) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid coordinates")
	}

	dateTime, err := parseISODateTime(req.DateTime)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid date_time format")
	}

	ride, err := h.rideService.Schedule(ctx, userID, req.Latitude, req.Longitude, dateTime)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to schedule ride")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"ride_id": ride.ID,
		"message": "Ride scheduled successfully",
	})
}

func (h *RideHandlers) CancelRide(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.UserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}

	rideID, err := uuid.Parse(c.Param("ride_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid ride")
	}

	if err := h.rideService.Cancel(ctx, userID, rideID); err != nil {
		if errors.Is(err, services.ErrInvalidRide) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid ride")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to cancel ride")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Ride cancelled successfully",
	})
}

// ListRides returns the caller's scheduled rides ordered by date.
func (h *RideHandlers) ListRides(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.UserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}

	rides, err := h.rideService.ListByUser(ctx, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list rides")
	}
	if rides == nil {
		rides = []*models.ScheduledRide{}
	}
	return c.JSON(http.StatusOK, rides)
}

// parseISODateTime accepts RFC 3339 timestamps, with a fallback for the
// zoneless form clients commonly send.
func parseISODateTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04:05", raw)
}
