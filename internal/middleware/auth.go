package middleware

import (
	"context"
	"net/http"
	"time"

	"pedalgo/internal/common"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenTTL = 24 * time.Hour

// AuthClaims is the JWT payload; the subject carries the user id.
type AuthClaims struct {
	jwt.RegisteredClaims
}

// GenerateToken signs a time-bound token for the given user.
func GenerateToken(secret []byte, userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "pedalgo",
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// JWTConfig builds the echo-jwt configuration for the protected route group.
// A verified subject is placed in the request context as the user id; the
// error messages match the API contract ("Token is missing" when the header
// is absent, "Invalid token" otherwise).
func JWTConfig(secret []byte) echojwt.Config {
	return echojwt.Config{
		SigningKey: secret,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(AuthClaims)
		},
		SuccessHandler: func(c echo.Context) {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return
			}
			claims, ok := token.Claims.(*AuthClaims)
			if !ok {
				return
			}
			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				return
			}
			ctx := context.WithValue(c.Request().Context(), common.UserIDKey, userID)
			c.SetRequest(c.Request().WithContext(ctx))
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if c.Request().Header.Get("Authorization") == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Token is missing")
			}
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		},
	}
}
