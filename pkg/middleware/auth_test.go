package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inventory-system/internal/entities"
	"inventory-system/pkg/contextkeys"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/service"
)

type revokedSessions map[string]bool

// ValidateSession: пользователь 99 считается отключённым.
func (r revokedSessions) ValidateSession(_ context.Context, userID uint64, _, sessionID string) error {
	if r[sessionID] || userID == 99 {
		return apperrors.ErrSessionRevoked
	}
	return nil
}

func newTestServer(t *testing.T, revoked revokedSessions) (*echo.Echo, service.JWTService) {
	t.Helper()
	jwtSvc := service.NewJWTService("secret", time.Hour)
	m := NewAuthMiddleware(jwtSvc, revoked, zap.NewNop())

	e := echo.New()
	g := e.Group("", m.Auth)
	g.GET("/me", func(c echo.Context) error {
		sid, _ := contextkeys.SessionID(c.Request().Context())
		return c.String(http.StatusOK, sid)
	})
	g.DELETE("/admin", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, m.RequireRole(entities.RoleAdmin))
	return e, jwtSvc
}

func TestAuth_BearerAndCookie(t *testing.T) {
	e, jwtSvc := newTestServer(t, revokedSessions{})
	token, err := jwtSvc.GenerateToken(1, "viewer", "sid-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sid-1", rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuth_Rejections(t *testing.T) {
	e, jwtSvc := newTestServer(t, revokedSessions{"gone": true})
	revoked, err := jwtSvc.GenerateToken(1, "viewer", "gone")
	require.NoError(t, err)

	disabled, err := jwtSvc.GenerateToken(99, "admin", "sid-99")
	require.NoError(t, err)

	cases := map[string]string{
		"missing":   "",
		"malformed": "Token abc",
		"garbage":   "Bearer abc.def.ghi",
		"revoked":   "Bearer " + revoked,
		"disabled":  "Bearer " + disabled,
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if header != "" {
				req.Header.Set(echo.HeaderAuthorization, header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	e, jwtSvc := newTestServer(t, revokedSessions{})

	for role, want := range map[string]int{"manager": http.StatusForbidden, "admin": http.StatusNoContent} {
		token, err := jwtSvc.GenerateToken(1, role, "sid")
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodDelete, "/admin", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, role)
	}
}

func TestRequestIDGenerator_Monotonic(t *testing.T) {
	gen := NewRequestIDGenerator()
	a, b := gen(), gen()
	assert.Len(t, a, 26)
	assert.Less(t, a, b)
}
