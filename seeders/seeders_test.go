package seeders

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	"inventory-system/internal/repositories/memory"
	"inventory-system/pkg/config"
	"inventory-system/pkg/utils"
)

type boolRow struct{ v bool }

func (r boolRow) Scan(dest ...any) error {
	*(dest[0].(*bool)) = r.v
	return nil
}

// recordingDB запоминает выполненные операторы; existing - уже созданные логины.
type recordingDB struct {
	existing map[string]bool
	execs    []string
}

func (d *recordingDB) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	d.execs = append(d.execs, sql)
	return pgconn.CommandTag{}, nil
}

func (d *recordingDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, nil
}

func (d *recordingDB) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	return boolRow{v: d.existing[args[0].(string)]}
}

func (d *recordingDB) Begin(context.Context) (pgx.Tx, error) {
	return nil, nil
}

func TestSeedAdmin(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStorage(repositories.NewRegistrationPolicy(true, nil, zap.NewNop()), zap.NewNop())
	users := store.Users()

	hasher := utils.NewPasswordHasher(bcrypt.MinCost)

	require.NoError(t, SeedAdmin(ctx, users, hasher, config.SeederConfig{}))
	all, err := users.GetUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	cfg := config.SeederConfig{AdminEmail: " Root@Example.com ", AdminUsername: "root", AdminPassword: "s3cret!"}
	require.NoError(t, SeedAdmin(ctx, users, hasher, cfg))
	require.NoError(t, SeedAdmin(ctx, users, hasher, cfg))

	all, err = users.GetUsers(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	admin := all[0]
	assert.Equal(t, "root@example.com", admin.Email)
	assert.Equal(t, entities.RoleAdmin, admin.Role)
	assert.True(t, admin.IsActive)
	assert.NoError(t, utils.CheckPassword(admin.Password, "s3cret!"))
}

func TestGrantStatements(t *testing.T) {
	joined := func(role entities.Role) string {
		return strings.Join(grantStatements(role, "inv_"+string(role)), "\n")
	}

	viewer := joined(entities.RoleViewer)
	assert.Contains(t, viewer, `GRANT SELECT ON assets, transfers, repairs TO "inv_viewer"`)
	assert.NotContains(t, viewer, "INSERT")
	assert.NotContains(t, viewer, "password")

	operator := joined(entities.RoleOperator)
	assert.Contains(t, operator, "GRANT INSERT ON transfers, repairs")
	assert.Contains(t, operator, "GRANT UPDATE ON repairs")
	assert.NotContains(t, operator, "DELETE")

	manager := joined(entities.RoleManager)
	assert.Contains(t, manager, "GRANT INSERT, UPDATE, DELETE ON assets")
	assert.Contains(t, manager, "GRANT DELETE ON repairs")
	assert.NotContains(t, manager, "ALL PRIVILEGES")

	admin := joined(entities.RoleAdmin)
	assert.Contains(t, admin, "GRANT ALL PRIVILEGES ON assets, transfers, repairs, users")

	stmts := grantStatements(entities.RoleViewer, `bad"name`)
	assert.Contains(t, stmts[0], `"bad""name"`)
}

func TestSeedRoleLogins(t *testing.T) {
	db := &recordingDB{existing: map[string]bool{"inv_manager": true}}
	cfg := config.DatabaseConfig{
		AuthUser:        "inv_auth",
		AuthPassword:    "auth'pw",
		RoleLoginPrefix: "inv_",
		RolePasswords: map[string]string{
			"manager": "m-pw",
			"viewer":  "v-pw",
		},
	}

	require.NoError(t, SeedRoleLogins(context.Background(), db, cfg))

	all := strings.Join(db.execs, "\n")
	assert.Contains(t, all, `CREATE ROLE "inv_auth" WITH LOGIN PASSWORD 'auth''pw'`)
	assert.Contains(t, all, `GRANT UPDATE (last_login) ON users TO "inv_auth"`)
	assert.Contains(t, all, `ALTER ROLE "inv_manager" WITH LOGIN PASSWORD 'm-pw'`)
	assert.Contains(t, all, `CREATE ROLE "inv_viewer" WITH LOGIN PASSWORD 'v-pw'`)
	assert.NotContains(t, all, "inv_admin")
	assert.NotContains(t, all, "inv_operator")
}
