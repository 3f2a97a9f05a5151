package diagnostics

import (
	"context"
	"errors"
	"net"
	"reflect"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inventory-system/internal/connections"
	"inventory-system/pkg/config"
	"inventory-system/pkg/database/postgresql"
	apperrors "inventory-system/pkg/errors"
)

type versionPool struct {
	closed bool
}

func (p *versionPool) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (p *versionPool) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("unused")
}
func (p *versionPool) QueryRow(context.Context, string, ...any) pgx.Row { return versionRow{} }
func (p *versionPool) Begin(context.Context) (pgx.Tx, error)          { return nil, errors.New("unused") }
func (p *versionPool) Ping(context.Context) error                     { return nil }
func (p *versionPool) Close()                                         { p.closed = true }

type versionRow struct{}

func (versionRow) Scan(dest ...any) error {
	reflect.ValueOf(dest[0]).Elem().SetString("16.4")
	return nil
}

func testDBConfig() config.DatabaseConfig {
	return config.DatabaseConfig{
		Host: "db.local", Port: 5432, Name: "inventory",
		AuthUser: "inventory_auth", AuthPassword: "auth",
		RoleLoginPrefix: "inventory_",
		RolePasswords:   map[string]string{"admin": "a", "viewer": "v"},
		ConnectTimeout:  time.Second,
	}
}

func TestTestConnection(t *testing.T) {
	var opened []*versionPool
	open := func(_ context.Context, opts postgresql.ConnectionOptions) (connections.Pool, error) {
		if opts.User == "bad" {
			return nil, &pgconn.PgError{Code: "28P01"}
		}
		p := &versionPool{}
		opened = append(opened, p)
		return p, nil
	}
	c := NewChecker(testDBConfig(), open, zap.NewNop())
	ctx := context.Background()

	ok := c.TestConnection(ctx, postgresql.ConnectionOptions{Host: "db.local", Port: 5432, Database: "inventory", User: "inventory_auth"})
	assert.True(t, ok.Success)
	assert.Equal(t, "16.4", ok.ServerVersion)
	assert.Equal(t, "db.local:5432", ok.Server)
	assert.Equal(t, "disable", ok.SSLMode)
	require.Len(t, opened, 1)
	assert.True(t, opened[0].closed)

	bad := c.TestConnection(ctx, postgresql.ConnectionOptions{Host: "db.local", Port: 5432, Database: "inventory", User: "bad"})
	assert.False(t, bad.Success)
	assert.Equal(t, apperrors.CategoryLoginFailed, bad.Category)
	assert.NotEmpty(t, bad.Message)
}

func TestTestPresets(t *testing.T) {
	var users []string
	open := func(_ context.Context, opts postgresql.ConnectionOptions) (connections.Pool, error) {
		users = append(users, opts.User)
		return &versionPool{}, nil
	}
	reports := NewChecker(testDBConfig(), open, zap.NewNop()).TestPresets(context.Background())

	require.Len(t, reports, 5)
	assert.Equal(t, "auth", reports[0].Name)
	assert.Equal(t, []string{"inventory_auth", "inventory_admin", "inventory_viewer"}, users)

	byName := make(map[string]Report)
	for _, r := range reports {
		byName[r.Name] = r.Report
	}
	assert.True(t, byName["admin"].Success)
	assert.False(t, byName["manager"].Success)
	assert.Contains(t, byName["manager"].Message, "DB_ROLE_PASSWORD_MANAGER")
}

func TestProbeNetwork(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	port := ln.Addr().(*net.TCPAddr).Port

	c := NewChecker(testDBConfig(), nil, zap.NewNop())
	report := c.ProbeNetwork(context.Background(), "127.0.0.1", port)
	assert.True(t, report.TCPReachable)
	assert.Equal(t, []string{"127.0.0.1"}, report.Addresses)

	require.NoError(t, ln.Close())
	closed := c.ProbeNetwork(context.Background(), "127.0.0.1", port)
	assert.False(t, closed.TCPReachable)
	assert.NotEmpty(t, closed.TCPError)
}

func TestEnvironmentMasksSecrets(t *testing.T) {
	cfg := &config.Config{
		Database: testDBConfig(),
		Session:  config.SessionConfig{Secret: "top-secret"},
	}
	env := Environment(cfg)

	assert.Equal(t, masked, env["db_auth_password"])
	assert.Equal(t, masked, env["session_secret"])
	assert.Equal(t, "", env["redis_password"])
	for _, v := range env {
		assert.NotEqual(t, "auth", v)
		assert.NotEqual(t, "top-secret", v)
	}
	passwords := env["role_passwords_configured"].(map[string]bool)
	assert.True(t, passwords["admin"])
	assert.False(t, passwords["operator"])
}
