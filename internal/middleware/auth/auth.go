package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dathuynh/watch-store-api/internal/models"
	"github.com/dathuynh/watch-store-api/internal/tokens"
)

const (
	userIDKey = "userID"
	roleKey   = "role"
)

type TokenMiddleware struct {
	JWTSecret []byte
}

// RequireLogin validates the bearer access token and stores the caller's
// identity on the echo context.
func (t *TokenMiddleware) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		claims, err := tokens.AccessClaimsFromToken(raw, t.JWTSecret)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
		}

		userID, err := tokens.SubjectID(claims)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
		}

		c.Set(userIDKey, userID)
		c.Set(roleKey, claims.Role)
		return next(c)
	}
}

func (t *TokenMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return t.RequireLogin(func(c echo.Context) error {
		if Role(c) != models.RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "admin only")
		}
		return next(c)
	})
}

func UserID(c echo.Context) uint {
	id, _ := c.Get(userIDKey).(uint)
	return id
}

func Role(c echo.Context) string {
	role, _ := c.Get(roleKey).(string)
	return role
}

func IsAdmin(c echo.Context) bool {
	return Role(c) == models.RoleAdmin
}
