package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"complaint-analytics/pkg/service"
	"complaint-analytics/pkg/utils"
)

func runAuth(t *testing.T, header string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	jwtSvc := service.NewJWTService("test-secret", time.Hour)
	m := NewAuthMiddleware(jwtSvc, zap.NewNop())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/reports/unified", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	seen := map[string]interface{}{}
	handler := m.Auth(func(c echo.Context) error {
		ctx := c.Request().Context()
		seen["user"], _ = utils.GetUserIDFromCtx(ctx)
		seen["role"], _ = utils.GetUserRoleFromCtx(ctx)
		seen["ward"] = utils.GetWardIDFromCtx(ctx)
		return c.NoContent(http.StatusNoContent)
	})
	require.NoError(t, handler(c))
	return rec, seen
}

func TestAuth_ValidTokenSetsIdentity(t *testing.T) {
	token, err := service.NewJWTService("test-secret", time.Hour).GenerateToken(7, "ward_officer", 3)
	require.NoError(t, err)

	rec, seen := runAuth(t, "Bearer "+token)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, uint64(7), seen["user"])
	assert.Equal(t, "ward_officer", seen["role"])
	assert.Equal(t, uint64(3), seen["ward"])
}

func TestAuth_Rejections(t *testing.T) {
	foreign, err := service.NewJWTService("other-secret", time.Hour).GenerateToken(7, "admin", 0)
	require.NoError(t, err)
	expired, err := service.NewJWTService("test-secret", -time.Minute).GenerateToken(7, "admin", 0)
	require.NoError(t, err)

	for name, header := range map[string]string{
		"missing":   "",
		"malformed": "Token abc",
		"foreign":   "Bearer " + foreign,
		"expired":   "Bearer " + expired,
	} {
		rec, seen := runAuth(t, header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, name)
		assert.Empty(t, seen, name)
		assert.Contains(t, rec.Body.String(), `"success":false`, name)
	}
}
