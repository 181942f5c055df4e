package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/jmehta/storefront/internal/tokens"
)

var secret = []byte("test-secret")

func doGuarded(t *testing.T, authHeader string) (echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/products", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	guard := NewGuard(secret)
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	return c, guard.RequireSession(next)(c)
}

func TestMissingTokenUnauthorized(t *testing.T) {
	_, err := doGuarded(t, "")
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestMalformedHeaderUnauthorized(t *testing.T) {
	_, err := doGuarded(t, "Token abc")
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestInvalidTokenForbidden(t *testing.T) {
	_, err := doGuarded(t, "Bearer not-a-token")
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusForbidden, he.Code)
}

func TestWrongSecretForbidden(t *testing.T) {
	token, err := tokens.SignSessionToken(1, "admin", "admin", []byte("other-secret"))
	require.NoError(t, err)

	_, guardErr := doGuarded(t, "Bearer "+token)
	he, ok := guardErr.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusForbidden, he.Code)
}

func TestValidTokenAttachesIdentity(t *testing.T) {
	token, err := tokens.SignSessionToken(42, "jitendra", "admin", secret)
	require.NoError(t, err)

	c, guardErr := doGuarded(t, "Bearer "+token)
	require.NoError(t, guardErr)
	require.Equal(t, "42", c.Get("accountID"))
	require.Equal(t, "jitendra", c.Get("username"))
	require.Equal(t, "admin", c.Get("role"))
}
