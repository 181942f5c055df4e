package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/jmehta/storefront/internal/logging"
	"github.com/jmehta/storefront/internal/service"
)

type AuthHandler struct {
	Svc *service.AuthService
}

type userSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("login_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Username == "" || req.Password == "" {
		l.Warn("login_failed", "status", 400, "reason", "missing fields")
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}

	token, account, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			l.Warn("login_failed", "status", 401, "username", req.Username)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
		}
		l.Error("login_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	l.Info("login_success", "username", account.Username)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "login successful",
		"token":   token,
		"user": userSummary{
			ID:       account.ID,
			Username: account.Username,
			Role:     account.Role,
		},
	})
}

// Verify runs behind the access guard; reaching it means the token checked
// out, so it only echoes the identity back for session restore.
func (h *AuthHandler) Verify(c echo.Context) error {
	sub, _ := c.Get("accountID").(string)
	username, _ := c.Get("username").(string)
	role, _ := c.Get("role").(string)

	id, _ := strconv.ParseUint(sub, 10, 64)

	return c.JSON(http.StatusOK, echo.Map{
		"valid": true,
		"user": userSummary{
			ID:       uint(id),
			Username: username,
			Role:     role,
		},
	})
}
