package connections

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"inventory-system/internal/entities"
	"inventory-system/pkg/config"
	"inventory-system/pkg/contextkeys"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/utils"
)

type ManagerSuite struct {
	suite.Suite
	opener  *fakeOpener
	manager *Manager
	ctx     context.Context
}

func testConfig() config.DatabaseConfig {
	return config.DatabaseConfig{
		Host:            "localhost",
		Port:            5432,
		Name:            "inventory",
		AuthUser:        "inventory_auth",
		AuthPassword:    "auth-secret",
		RoleLoginPrefix: "inventory_",
		RolePasswords:   map[string]string{"admin": "admin-override"},
		ConnectTimeout:  time.Second,
	}
}

func (s *ManagerSuite) SetupTest() {
	hash, err := utils.NewPasswordHasher(bcrypt.MinCost).Hash("admin123")
	s.Require().NoError(err)

	s.opener = &fakeOpener{users: []entities.User{
		{ID: 1, Username: "admin", Email: "admin@example.com", Password: hash, Role: entities.RoleAdmin, IsActive: true},
		{ID: 2, Username: "viewer", Email: "viewer@example.com", Password: hash, Role: entities.RoleViewer, IsActive: true,
			RolePassword: null.StringFrom("viewer-secret")},
		{ID: 3, Username: "ghost", Email: "ghost@example.com", Password: hash, Role: entities.RoleViewer, IsActive: false,
			RolePassword: null.StringFrom("viewer-secret")},
		{ID: 4, Username: "nosecret", Email: "nosecret@example.com", Password: hash, Role: entities.RoleOperator, IsActive: true},
	}}
	s.manager = NewManager(testConfig(), s.opener.open, zap.NewNop())
	s.ctx = context.Background()
}

func (s *ManagerSuite) TestInitializeAuthConnectionIsIdempotent() {
	first, err := s.manager.InitializeAuthConnection(s.ctx)
	s.Require().NoError(err)
	second, err := s.manager.InitializeAuthConnection(s.ctx)
	s.Require().NoError(err)

	s.Same(first, second)
	s.Len(s.opener.opened(), 1)
	s.Equal("inventory_auth", s.opener.opened()[0].opts.User)
}

func (s *ManagerSuite) TestInitializeAuthConnectionRetriesAfterFailure() {
	s.opener.failOn = map[string]error{"inventory_auth": &pgconn.PgError{Code: "28P01"}}

	_, err := s.manager.InitializeAuthConnection(s.ctx)
	var connErr *apperrors.ConnectionError
	s.Require().True(errors.As(err, &connErr))
	s.Equal(apperrors.CategoryLoginFailed, connErr.Category)

	s.opener.failOn = nil
	pool, err := s.manager.InitializeAuthConnection(s.ctx)
	s.Require().NoError(err)
	s.NotNil(pool)
}

func (s *ManagerSuite) TestAuthenticateUserByEmailAndUsername() {
	res, err := s.manager.AuthenticateUser(s.ctx, "admin@example.com", "admin123")
	s.Require().NoError(err)
	s.Equal(uint64(1), res.User.ID)
	s.Equal("inventory_admin", res.RoleLogin)
	s.Equal("admin-override", res.RoleSecret)
	s.True(res.User.LastLogin.Valid)

	res, err = s.manager.AuthenticateUser(s.ctx, "viewer", "admin123")
	s.Require().NoError(err)
	s.Equal(entities.RoleViewer, res.User.Role)
	s.Equal("viewer-secret", res.RoleSecret)
}

func (s *ManagerSuite) TestAuthenticateUserEmailIgnoresCase() {
	res, err := s.manager.AuthenticateUser(s.ctx, "Admin@Example.COM", "admin123")
	s.Require().NoError(err)
	s.Equal(uint64(1), res.User.ID)
}

func (s *ManagerSuite) TestAuthenticateUserRejections() {
	cases := map[string][2]string{
		"wrong password":     {"admin@example.com", "nope"},
		"unknown identifier": {"nobody@example.com", "admin123"},
		"inactive user":      {"ghost", "admin123"},
	}
	for name, c := range cases {
		_, err := s.manager.AuthenticateUser(s.ctx, c[0], c[1])
		s.ErrorIs(err, apperrors.ErrInvalidCredentials, name)
	}

	_, err := s.manager.AuthenticateUser(s.ctx, "nosecret", "admin123")
	s.ErrorIs(err, apperrors.ErrRoleSecretMissing)
}

func (s *ManagerSuite) TestLastLoginFailureIsNotFatal() {
	pool, err := s.manager.InitializeAuthConnection(s.ctx)
	s.Require().NoError(err)
	pool.(*fakePool).execErr = errors.New("permission denied for table users")

	res, err := s.manager.AuthenticateUser(s.ctx, "admin", "admin123")
	s.Require().NoError(err)
	s.False(res.User.LastLogin.Valid)
}

func (s *ManagerSuite) TestCreateUserConnectionReplacesExisting() {
	first, err := s.manager.CreateUserConnection(s.ctx, "sess-1", "inventory_viewer", "viewer-secret")
	s.Require().NoError(err)
	second, err := s.manager.CreateUserConnection(s.ctx, "sess-1", "inventory_viewer", "viewer-secret")
	s.Require().NoError(err)

	s.True(first.(*fakePool).closed.Load())
	s.False(second.(*fakePool).closed.Load())
	s.Equal(1, s.manager.SessionCount())

	got, ok := s.manager.GetSessionConnection("sess-1")
	s.True(ok)
	s.Same(second, got)
	s.Equal("inventory_viewer", second.(*fakePool).opts.User)
}

func (s *ManagerSuite) TestCreateUserConnectionFailureLeavesNoPool() {
	s.opener.failOn = map[string]error{"inventory_admin": fmt.Errorf("connect: %w", context.DeadlineExceeded)}

	_, err := s.manager.CreateUserConnection(s.ctx, "sess-x", "inventory_admin", "bad")
	var connErr *apperrors.ConnectionError
	s.Require().True(errors.As(err, &connErr))
	s.Equal(apperrors.CategoryTimeout, connErr.Category)

	_, ok := s.manager.GetSessionConnection("sess-x")
	s.False(ok)
}

func (s *ManagerSuite) TestCloseSessionConnectionIsIdempotent() {
	pool, err := s.manager.CreateUserConnection(s.ctx, "sess-2", "inventory_viewer", "x")
	s.Require().NoError(err)

	s.manager.CloseSessionConnection("sess-2")
	s.manager.CloseSessionConnection("sess-2")

	s.Equal(int32(1), pool.(*fakePool).closeCnt.Load())
	_, ok := s.manager.GetSessionConnection("sess-2")
	s.False(ok)
}

func (s *ManagerSuite) TestExecuteUserQuery() {
	_, err := s.manager.ExecuteUserQuery(s.ctx, "missing", "SELECT 1")
	s.ErrorIs(err, apperrors.ErrNoActiveConnection)

	pool, err := s.manager.CreateUserConnection(s.ctx, "sess-3", "inventory_viewer", "x")
	s.Require().NoError(err)
	pool.(*fakePool).rows = &fakeRows{
		columns: []string{"id", "voucher_number"},
		data:    [][]any{{int64(1), "VCH-001"}, {int64(2), "VCH-002"}},
		tag:     "SELECT 2",
	}

	res, err := s.manager.ExecuteUserQuery(s.ctx, "sess-3", "SELECT id, voucher_number FROM assets")
	s.Require().NoError(err)
	s.Equal([]string{"id", "voucher_number"}, res.Columns)
	s.Len(res.Rows, 2)
	s.Equal("VCH-002", res.Rows[1]["voucher_number"])
	s.Equal(int64(2), res.RowsAffected)
}

func (s *ManagerSuite) TestSessionQuerierRoutesBySession() {
	q := s.manager.SessionQuerier()

	var n int
	err := q.QueryRow(s.ctx, "SELECT 1").Scan(&n)
	s.ErrorIs(err, apperrors.ErrNoActiveConnection)

	_, err = s.manager.CreateUserConnection(s.ctx, "sess-4", "inventory_viewer", "x")
	s.Require().NoError(err)

	ctx := contextkeys.WithSession(s.ctx, 2, "viewer", "sess-4")
	tag, err := q.Exec(ctx, "UPDATE assets SET location = 'x'")
	s.Require().NoError(err)
	s.Equal(int64(1), tag.RowsAffected())

	_, err = q.Exec(contextkeys.WithSession(s.ctx, 2, "viewer", "other"), "SELECT 1")
	s.ErrorIs(err, apperrors.ErrNoActiveConnection)
}

func (s *ManagerSuite) TestShutdownClosesEverything() {
	auth, err := s.manager.InitializeAuthConnection(s.ctx)
	s.Require().NoError(err)
	a, err := s.manager.CreateUserConnection(s.ctx, "a", "inventory_viewer", "x")
	s.Require().NoError(err)
	b, err := s.manager.CreateUserConnection(s.ctx, "b", "inventory_admin", "x")
	s.Require().NoError(err)

	s.Require().NoError(s.manager.Shutdown(s.ctx))

	s.True(auth.(*fakePool).closed.Load())
	s.True(a.(*fakePool).closed.Load())
	s.True(b.(*fakePool).closed.Load())
	s.Equal(0, s.manager.SessionCount())

	_, err = s.manager.CreateUserConnection(s.ctx, "c", "inventory_viewer", "x")
	s.ErrorIs(err, apperrors.ErrManagerClosed)
	_, err = s.manager.InitializeAuthConnection(s.ctx)
	s.ErrorIs(err, apperrors.ErrManagerClosed)
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerSuite))
}

func TestCreateUserConnection_ConcurrentSameSession(t *testing.T) {
	opener := &fakeOpener{}
	m := NewManager(testConfig(), opener.open, zap.NewNop())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.CreateUserConnection(ctx, "shared", "inventory_viewer", "x")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	live := 0
	for _, p := range opener.opened() {
		if !p.closed.Load() {
			live++
		}
	}
	require.Len(t, opener.opened(), 20)
	assert.Equal(t, 1, live)
	assert.Equal(t, 1, m.SessionCount())
	assert.Empty(t, m.locks)
}
