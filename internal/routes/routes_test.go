package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"inventory-system/pkg/config"
	"inventory-system/pkg/customvalidator"
	"inventory-system/pkg/middleware"
)

func testConfig() *config.Config {
	return &config.Config{
		Storage: config.StorageConfig{Driver: config.StorageMemory},
		Database: config.DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			Name:            "inventory",
			AuthUser:        "inventory_auth",
			AuthPassword:    "auth-secret",
			RoleLoginPrefix: "inventory_",
			RolePasswords:   map[string]string{},
			ConnectTimeout:  time.Second,
			RequestTimeout:  5 * time.Second,
		},
		Session: config.SessionConfig{Secret: "test-session-secret", TTL: time.Hour},
		Registration: config.RegistrationConfig{
			Enabled: true,
			InvitationCodes: map[string]string{
				"ADMIN-2024":    "admin",
				"OPERATOR-2024": "operator",
			},
		},
		Auth: config.AuthConfig{MaxLoginAttempts: 5, LockoutDuration: time.Minute, BcryptCost: bcrypt.MinCost},
	}
}

type envelope struct {
	Status   bool            `json:"status"`
	Body     json.RawMessage `json:"body"`
	Message  string          `json:"message"`
	Category string          `json:"category"`
}

type RouterSuite struct {
	suite.Suite
	cfg  *config.Config
	app  *App
	echo *echo.Echo
}

func (s *RouterSuite) SetupTest() {
	s.cfg = testConfig()
	s.start()
}

func (s *RouterSuite) start() {
	app, err := NewApp(context.Background(), s.cfg, zap.NewNop())
	s.Require().NoError(err)
	v, err := customvalidator.New()
	s.Require().NoError(err)

	e := echo.New()
	e.Validator = customvalidator.NewEchoValidator(v)
	InitRouter(e, app)
	s.app, s.echo = app, e
}

func (s *RouterSuite) TearDownTest() {
	s.NoError(s.app.Shutdown(context.Background()))
}

func (s *RouterSuite) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	var env envelope
	if rec.Header().Get(echo.HeaderContentType) == echo.MIMEApplicationJSON || bytes.HasPrefix(rec.Body.Bytes(), []byte("{")) {
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec, env
}

// registerAndLogin возвращает токен сессии.
func (s *RouterSuite) registerAndLogin(username, code string) string {
	body := map[string]interface{}{
		"username": username,
		"email":    username + "@example.org",
		"password": "secret123",
	}
	if code != "" {
		body["invitationCode"] = code
	}
	rec, _ := s.do(http.MethodPost, "/api/auth/register", "", body)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	return s.login(username)
}

func (s *RouterSuite) login(username string) string {
	rec, env := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": username, "password": "secret123"})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	s.Require().NoError(json.Unmarshal(env.Body, &resp))
	s.Require().NotEmpty(resp.Token)
	return resp.Token
}

func (s *RouterSuite) createAsset(token, voucher string) uint64 {
	rec, env := s.do(http.MethodPost, "/api/assets", token, map[string]interface{}{
		"voucher_number": voucher,
		"date":           "2024-01-15",
		"donor":          "UNICEF",
		"location":       "Warehouse A",
		"project_name":   "Health",
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var asset struct {
		ID     uint64 `json:"id"`
		Status string `json:"status"`
	}
	s.Require().NoError(json.Unmarshal(env.Body, &asset))
	s.Equal("active", asset.Status)
	return asset.ID
}

func (s *RouterSuite) TestHealth() {
	rec, env := s.do(http.MethodGet, "/api/health", "", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.True(env.Status)
}

func (s *RouterSuite) TestLoginSetsCookieAndHidesSecrets() {
	s.registerAndLogin("admin1", "ADMIN-2024")

	rec, _ := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "admin1@example.org", "password": "secret123"})
	s.Require().Equal(http.StatusOK, rec.Code)
	s.NotContains(rec.Body.String(), "password")
	s.NotContains(rec.Body.String(), "role_password")

	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			session = c
		}
	}
	s.Require().NotNil(session)
	s.True(session.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(session)
	me := httptest.NewRecorder()
	s.echo.ServeHTTP(me, req)
	s.Equal(http.StatusOK, me.Code)
	s.Contains(me.Body.String(), `"role":"admin"`)
}

func (s *RouterSuite) TestLoginFailures() {
	rec, env := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ghost", "password": "x"})
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.False(env.Status)

	rec, _ = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ghost"})
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *RouterSuite) TestRegistrationRules() {
	rec, _ := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "bad", "email": "bad@example.org", "password": "secret123", "invitationCode": "NOPE",
	})
	s.Equal(http.StatusBadRequest, rec.Code)

	rec, _ = s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "x", "email": "not-an-email", "password": "1",
	})
	s.Equal(http.StatusBadRequest, rec.Code)

	s.cfg.Registration.Enabled = false
	s.Require().NoError(s.app.Shutdown(context.Background()))
	s.start()
	rec, _ = s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "late", "email": "late@example.org", "password": "secret123",
	})
	s.Equal(http.StatusForbidden, rec.Code)
}

func (s *RouterSuite) TestUnauthenticatedAccess() {
	rec, _ := s.do(http.MethodGet, "/api/assets", "", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
	rec, _ = s.do(http.MethodGet, "/api/auth/me", "", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *RouterSuite) TestRoleGuards() {
	viewer := s.registerAndLogin("viewer1", "")

	rec, _ := s.do(http.MethodGet, "/api/assets", viewer, nil)
	s.Equal(http.StatusOK, rec.Code)

	rec, _ = s.do(http.MethodPost, "/api/assets", viewer, map[string]string{"voucher_number": "V-1"})
	s.Equal(http.StatusForbidden, rec.Code)

	rec, _ = s.do(http.MethodGet, "/api/users", viewer, nil)
	s.Equal(http.StatusForbidden, rec.Code)
}

func (s *RouterSuite) TestVoucherScenario() {
	admin := s.registerAndLogin("admin2", "ADMIN-2024")
	assetID := s.createAsset(admin, "VCH-001")

	rec, _ := s.do(http.MethodPost, "/api/assets", admin, map[string]interface{}{
		"voucher_number": "VCH-001", "date": "2024-01-15", "donor": "d", "location": "l",
	})
	s.Equal(http.StatusConflict, rec.Code)

	rec, env := s.do(http.MethodPost, "/api/repairs", admin, map[string]interface{}{
		"asset_id": assetID, "issue_description": "Screen", "sent_date": "2024-02-01",
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var repair struct {
		ID     uint64 `json:"id"`
		Status string `json:"status"`
	}
	s.Require().NoError(json.Unmarshal(env.Body, &repair))
	s.Equal("in_repair", repair.Status)

	rec, env = s.do(http.MethodGet, fmt.Sprintf("/api/assets/%d", assetID), admin, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(string(env.Body), `"status":"active"`)

	rec, _ = s.do(http.MethodPost, "/api/transfers", admin, map[string]interface{}{
		"asset_id": assetID, "from_location": "Warehouse A", "to_location": "Warehouse B",
		"from_custodian": "Alice", "to_custodian": "Bob", "transfer_date": "2024-02-05",
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	rec, env = s.do(http.MethodGet, fmt.Sprintf("/api/assets/%d/transfers", assetID), admin, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var transfers []struct {
		ToLocation string `json:"to_location"`
	}
	s.Require().NoError(json.Unmarshal(env.Body, &transfers))
	s.Require().Len(transfers, 1)
	s.Equal("Warehouse B", transfers[0].ToLocation)

	rec, _ = s.do(http.MethodPost, fmt.Sprintf("/api/repairs/%d/complete", repair.ID), admin, map[string]string{})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	rec, env = s.do(http.MethodGet, "/api/repairs/active", admin, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.JSONEq(`[]`, string(env.Body))
}

func (s *RouterSuite) TestNotFoundAndBadID() {
	admin := s.registerAndLogin("admin3", "ADMIN-2024")

	rec, _ := s.do(http.MethodGet, "/api/assets/999", admin, nil)
	s.Equal(http.StatusNotFound, rec.Code)
	rec, _ = s.do(http.MethodGet, "/api/assets/abc", admin, nil)
	s.Equal(http.StatusBadRequest, rec.Code)
	rec, _ = s.do(http.MethodDelete, "/api/repairs/999", admin, nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *RouterSuite) TestExport() {
	admin := s.registerAndLogin("admin4", "ADMIN-2024")
	s.createAsset(admin, "VCH-500")

	rec, _ := s.do(http.MethodGet, "/api/assets/export", admin, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get(echo.HeaderContentType))
	s.Contains(rec.Header().Get(echo.HeaderContentDisposition), "assets_")
	s.True(bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))
}

func (s *RouterSuite) TestUsersAdministration() {
	admin := s.registerAndLogin("admin5", "ADMIN-2024")

	rec, env := s.do(http.MethodPost, "/api/users", admin, map[string]interface{}{
		"username": "op7", "email": "op7@example.org", "password": "secret123", "role": "operator",
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var user struct {
		ID uint64 `json:"id"`
	}
	s.Require().NoError(json.Unmarshal(env.Body, &user))

	rec, _ = s.do(http.MethodPut, fmt.Sprintf("/api/users/%d", user.ID), admin, map[string]string{"role": "superuser"})
	s.Equal(http.StatusBadRequest, rec.Code)

	rec, env = s.do(http.MethodGet, "/api/users", admin, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.NotContains(string(env.Body), "password")

	rec, _ = s.do(http.MethodDelete, fmt.Sprintf("/api/users/%d", user.ID), admin, nil)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *RouterSuite) TestLoginWithRegisteredEmailCase() {
	rec, _ := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "casey", "email": "Casey@Example.org", "password": "secret123",
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	rec, _ = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "Casey@Example.org", "password": "secret123"})
	s.Equal(http.StatusOK, rec.Code, rec.Body.String())
}

func (s *RouterSuite) TestDisabledOrDemotedUserLosesAccess() {
	admin := s.registerAndLogin("admin8", "ADMIN-2024")
	operator := s.registerAndLogin("op8", "OPERATOR-2024")

	rec, env := s.do(http.MethodGet, "/api/auth/me", operator, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var me struct {
		ID uint64 `json:"id"`
	}
	s.Require().NoError(json.Unmarshal(env.Body, &me))

	rec, _ = s.do(http.MethodPut, fmt.Sprintf("/api/users/%d", me.ID), admin, map[string]interface{}{"role": "viewer"})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	rec, _ = s.do(http.MethodPost, "/api/transfers", operator, map[string]interface{}{})
	s.Equal(http.StatusUnauthorized, rec.Code)
	rec, _ = s.do(http.MethodGet, "/api/assets", operator, nil)
	s.Equal(http.StatusUnauthorized, rec.Code)

	viewer := s.login("op8")
	rec, _ = s.do(http.MethodGet, "/api/assets", viewer, nil)
	s.Equal(http.StatusOK, rec.Code)
	rec, _ = s.do(http.MethodPost, "/api/transfers", viewer, map[string]interface{}{})
	s.Equal(http.StatusForbidden, rec.Code)

	rec, _ = s.do(http.MethodPut, fmt.Sprintf("/api/users/%d", me.ID), admin, map[string]interface{}{"is_active": false})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	rec, _ = s.do(http.MethodGet, "/api/assets", viewer, nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
	rec, _ = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "op8", "password": "secret123"})
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *RouterSuite) TestLogoutRevokesToken() {
	token := s.registerAndLogin("leaver", "")

	rec, _ := s.do(http.MethodPost, "/api/auth/logout", token, nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	rec, _ = s.do(http.MethodGet, "/api/auth/me", token, nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *RouterSuite) TestDiagnosticsDisabledByDefault() {
	admin := s.registerAndLogin("admin6", "ADMIN-2024")
	rec, _ := s.do(http.MethodGet, "/api/database/environment", admin, nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *RouterSuite) TestDiagnosticsEnabled() {
	s.cfg.Diagnostics = true
	s.Require().NoError(s.app.Shutdown(context.Background()))
	s.start()

	operator := s.registerAndLogin("op8", "OPERATOR-2024")
	rec, _ := s.do(http.MethodGet, "/api/database/environment", operator, nil)
	s.Equal(http.StatusForbidden, rec.Code)

	admin := s.registerAndLogin("admin7", "ADMIN-2024")
	rec, env := s.do(http.MethodGet, "/api/database/environment", admin, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.NotContains(string(env.Body), "auth-secret")
	s.NotContains(string(env.Body), "test-session-secret")

	rec, _ = s.do(http.MethodPost, "/api/database/execute-query", admin, map[string]string{"sql": "SELECT 1"})
	s.Equal(http.StatusBadRequest, rec.Code)

	rec, env = s.do(http.MethodPost, "/api/database/test-connection", admin, map[string]interface{}{
		"host": "127.0.0.1", "port": 1, "database": "inventory", "user": "nobody", "password": "x",
	})
	s.Equal(http.StatusServiceUnavailable, rec.Code)
	s.False(env.Status)
	s.NotEmpty(env.Category)
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func TestNewApp_UnknownDriver(t *testing.T) {
	cfg := testConfig()
	cfg.Storage.Driver = "oracle"
	_, err := NewApp(context.Background(), cfg, zap.NewNop())
	if err == nil {
		t.Fatal("ожидалась ошибка для неизвестного драйвера")
	}
}
