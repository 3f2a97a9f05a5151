package postgres

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	"inventory-system/pkg/database/postgresql"
)

const usersTable = "users"

// UserColumns - порядок колонок, который ожидает ScanUser.
var UserColumns = []string{
	"id", "username", "email", "password", "role", "department",
	"is_active", "last_login", "role_password", "created_at", "updated_at",
}

var userReturning = "RETURNING " + strings.Join(UserColumns, ", ")

type UserRepository struct {
	db     postgresql.Querier
	logger *zap.Logger
	*repositories.RegistrationPolicy
}

func ScanUser(row pgx.Row) (*entities.User, error) {
	var u entities.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.Password, &u.Role, &u.Department,
		&u.IsActive, &u.LastLogin, &u.RolePassword, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

func (r *UserRepository) GetUsers(ctx context.Context) ([]entities.User, error) {
	query, args, err := toSQL(psql.Select(UserColumns...).From(usersTable).OrderBy("id ASC"))
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	users := make([]entities.User, 0)
	for rows.Next() {
		u, err := ScanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, mapError(rows.Err())
}

func (r *UserRepository) findOne(ctx context.Context, where sq.Eq) (*entities.User, error) {
	query, args, err := toSQL(psql.Select(UserColumns...).From(usersTable).Where(where).Limit(1))
	if err != nil {
		return nil, err
	}
	return ScanUser(r.db.QueryRow(ctx, query, args...))
}

func (r *UserRepository) FindUser(ctx context.Context, id uint64) (*entities.User, error) {
	return r.findOne(ctx, sq.Eq{"id": id})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.findOne(ctx, sq.Eq{"email": email})
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	return r.findOne(ctx, sq.Eq{"username": username})
}

func (r *UserRepository) CreateUser(ctx context.Context, user *entities.User) (*entities.User, error) {
	role := user.Role
	if role == "" {
		role = entities.RoleViewer
	}

	query, args, err := toSQL(psql.Insert(usersTable).
		Columns("username", "email", "password", "role", "department", "is_active", "role_password").
		Values(user.Username, user.Email, user.Password, string(role), user.Department, user.IsActive, user.RolePassword).
		Suffix(userReturning))
	if err != nil {
		return nil, err
	}

	created, err := ScanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		r.logger.Debug("Не удалось создать пользователя", zap.String("username", user.Username), zap.Error(err))
		return nil, err
	}
	return created, nil
}

func (r *UserRepository) UpdateUser(ctx context.Context, id uint64, patch entities.UserPatch) (*entities.User, error) {
	query, args, err := toSQL(psql.Update(usersTable).
		SetMap(patch.Changes()).
		Set("updated_at", bumpUpdatedAt).
		Where(sq.Eq{"id": id}).
		Suffix(userReturning))
	if err != nil {
		return nil, err
	}
	return ScanUser(r.db.QueryRow(ctx, query, args...))
}

func (r *UserRepository) DeleteUser(ctx context.Context, id uint64) (bool, error) {
	query, args, err := toSQL(psql.Delete(usersTable).Where(sq.Eq{"id": id}))
	if err != nil {
		return false, err
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return false, mapError(err)
	}
	return tag.RowsAffected() > 0, nil
}
