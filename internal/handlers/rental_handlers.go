package handlers

import (
	"errors"
	"net/http"

	"pedalgo/internal/common"
	"pedalgo/internal/geo"
	"pedalgo/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RentalHandlers drives the rental lifecycle.
type RentalHandlers struct {
	rentalService services.RentalService
}

func NewRentalHandlers(rentalService services.RentalService) *RentalHandlers {
	return &RentalHandlers{rentalService: rentalService}
}

// StartRentalRequest represents the rental start payload.
type StartRentalRequest struct {
	BikeID        string  `json:"bike_id"`
	UserLatitude  float64 `json:"user_latitude"`
	UserLongitude float64 `json:"user_longitude"`
}

func (h *RentalHandlers) StartRental(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.UserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}

	var req StartRentalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	bikeID, err := uuid.Parse(req.BikeID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid bike ID format")
	}
	if !geo.ValidCoordinate(req.UserLatitude, req.UserLongitude) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid coordinates")
	}

	result, err := h.rentalService.Start(ctx, userID, bikeID, req.UserLatitude, req.UserLongitude)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBikeNotFound):
			return echo.NewHTTPError(http.StatusBadRequest, "Bike not found")
		case errors.Is(err, services.ErrBikeUnavailable):
			return echo.NewHTTPError(http.StatusBadRequest, "Bike not available")
		case errors.Is(err, services.ErrActiveRental):
			return echo.NewHTTPError(http.StatusBadRequest, "User has active rental")
		case errors.Is(err, services.ErrTooFarFromBike):
			return echo.NewHTTPError(http.StatusBadRequest, "Too far from bike")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to start rental")
	}

	return c.JSON(http.StatusOK, result)
}

// EndRentalRequest represents the rental end payload; both fields are
// optional overrides.
type EndRentalRequest struct {
	Points *int     `json:"points"`
	Cost   *float64 `json:"cost"`
}

// EndRentalResponse is the settlement returned to the rider.
type EndRentalResponse struct {
	Message      string  `json:"message"`
	PointsEarned int     `json:"points_earned"`
	Cost         float64 `json:"cost"`
	TotalPoints  int     `json:"total_points"`
}

func (h *RentalHandlers) EndRental(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.UserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}

	rentalID, err := uuid.Parse(c.Param("rental_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid rental")
	}

	var req EndRentalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	settlement, err := h.rentalService.End(ctx, userID, rentalID, req.Points, req.Cost)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRental):
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid rental")
		case errors.Is(err, services.ErrRentalEnded):
			return echo.NewHTTPError(http.StatusBadRequest, "Rental already ended")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to end rental")
	}

	return c.JSON(http.StatusOK, EndRentalResponse{
		Message:      "Rental ended successfully",
		PointsEarned: settlement.PointsEarned,
		Cost:         settlement.Cost,
		TotalPoints:  settlement.TotalPoints,
	})
}
