package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/car-rental-reservation/internal/utils"
)

func runProtected(t *testing.T, authHeader string, mw ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	h := func(c echo.Context) error {
		uid := c.Get("user_id")
		role := c.Get("role")
		return c.JSON(http.StatusOK, echo.Map{"user_id": uid, "role": role})
	}
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	return rec
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	at, err := utils.NewAccessToken("secret", 11, "CUSTOMER", 15)
	require.NoError(t, err)

	rec := runProtected(t, "Bearer "+at.Token, JWTAuth("secret"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"CUSTOMER"`)
}

func TestJWTAuthRejectsMissingHeader(t *testing.T) {
	rec := runProtected(t, "", JWTAuth("secret"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsWrongSecret(t *testing.T) {
	at, err := utils.NewAccessToken("other", 11, "CUSTOMER", 15)
	require.NoError(t, err)

	rec := runProtected(t, "Bearer "+at.Token, JWTAuth("secret"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRoleAllowsListedRole(t *testing.T) {
	at, err := utils.NewAccessToken("secret", 11, "ADMIN", 15)
	require.NoError(t, err)

	rec := runProtected(t, "Bearer "+at.Token, JWTAuth("secret"), RequireRole("ADMIN"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleRejectsOtherRole(t *testing.T) {
	at, err := utils.NewAccessToken("secret", 11, "CUSTOMER", 15)
	require.NoError(t, err)

	rec := runProtected(t, "Bearer "+at.Token, JWTAuth("secret"), RequireRole("ADMIN"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleRejectsMissingRole(t *testing.T) {
	rec := runProtected(t, "", RequireRole("ADMIN"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
