package handlers

import (
	"errors"
	"net/http"

	"pedalgo/internal/middleware"
	"pedalgo/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers handles registration and login.
type AuthHandlers struct {
	accountService services.AccountService
	jwtSecret      []byte
}

func NewAuthHandlers(accountService services.AccountService, jwtSecret []byte) *AuthHandlers {
	return &AuthHandlers{
		accountService: accountService,
		jwtSecret:      jwtSecret,
	}
}

// RegisterRequest represents the signup payload.
type RegisterRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Phone    *string `json:"phone"`
	CPF      *string `json:"cpf"`
}

func (h *AuthHandlers) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Name, email and password are required")
	}

	_, err := h.accountService.Register(ctx, req.Name, req.Email, req.Password, req.Phone, req.CPF)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return echo.NewHTTPError(http.StatusBadRequest, "Email already registered")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to register user")
	}

	return c.JSON(http.StatusCreated, map[string]string{
		"message": "User registered successfully",
	})
}

// LoginRequest represents the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the signed token and the user's public fields.
type LoginResponse struct {
	Token string        `json:"token"`
	User  LoginUserInfo `json:"user"`
}

type LoginUserInfo struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Points int    `json:"points"`
}

func (h *AuthHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email and password are required")
	}

	user, err := h.accountService.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to log in")
	}

	token, err := middleware.GenerateToken(h.jwtSecret, user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusOK, LoginResponse{
		Token: token,
		User: LoginUserInfo{
			Name:   user.Name,
			Email:  user.Email,
			Points: user.Points,
		},
	})
}
