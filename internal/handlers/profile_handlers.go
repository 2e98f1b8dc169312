package handlers

import (
	"errors"
	"net/http"

	"pedalgo/internal/common"
	"pedalgo/internal/services"

	"github.com/labstack/echo/v4"
)

// ProfileHandlers serves the authenticated user's profile.
type ProfileHandlers struct {
	accountService services.AccountService
}

func NewProfileHandlers(accountService services.AccountService) *ProfileHandlers {
	return &ProfileHandlers{accountService: accountService}
}

func (h *ProfileHandlers) GetProfile(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.UserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}

	user, err := h.accountService.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load profile")
	}

	return c.JSON(http.StatusOK, user.Profile())
}

// UpdateProfileRequest represents the profile patch payload. Only the phone
// can change through this endpoint.
type UpdateProfileRequest struct {
	Phone *string `json:"phone"`
}

func (h *ProfileHandlers) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.UserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if _, err := h.accountService.UpdatePhone(ctx, userID, req.Phone); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update profile")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Profile updated successfully",
	})
}
