package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/jmehta/storefront/internal/tokens"
)

type Guard struct {
	JWTSecret []byte
}

func NewGuard(secret []byte) *Guard {
	return &Guard{JWTSecret: secret}
}

// RequireSession guards privileged endpoints. A missing bearer token is
// Unauthorized, a present but bad one is Forbidden; valid claims are
// attached to the echo context for the handler.
func (g *Guard) RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "access token required")
		}

		claims, err := tokens.SessionClaimsFromToken(token, g.JWTSecret)
		if err != nil {
			return echo.NewHTTPError(http.StatusForbidden, "invalid or expired token")
		}

		c.Set("accountID", claims.Subject)
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)

		return next(c)
	}
}
