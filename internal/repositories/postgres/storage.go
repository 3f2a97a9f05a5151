// Package postgres - реляционная реализация Storage поверх pgx и squirrel.
package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"inventory-system/internal/repositories"
	"inventory-system/pkg/database/postgresql"
	apperrors "inventory-system/pkg/errors"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// bumpUpdatedAt гарантирует строго возрастающий updated_at даже в пределах одной транзакции.
var bumpUpdatedAt = sq.Expr("GREATEST(clock_timestamp(), updated_at + interval '1 microsecond')")

type Storage struct {
	db     postgresql.Querier
	inTx   bool
	policy *repositories.RegistrationPolicy
	logger *zap.Logger
}

// NewStorage принимает пул, транзакцию или маршрутизатор сессионных подключений.
func NewStorage(db postgresql.Querier, policy *repositories.RegistrationPolicy, logger *zap.Logger) *Storage {
	return &Storage{db: db, policy: policy, logger: logger}
}

func (s *Storage) Users() repositories.UserRepositoryInterface {
	return &UserRepository{db: s.db, logger: s.logger, RegistrationPolicy: s.policy}
}

func (s *Storage) Assets() repositories.AssetRepositoryInterface {
	return &AssetRepository{db: s.db, logger: s.logger}
}

func (s *Storage) Transfers() repositories.TransferRepositoryInterface {
	return &TransferRepository{db: s.db, logger: s.logger}
}

func (s *Storage) Repairs() repositories.RepairRepositoryInterface {
	return &RepairRepository{db: s.db, logger: s.logger}
}

func (s *Storage) RunInTransaction(ctx context.Context, fn func(tx repositories.Storage) error) error {
	if s.inTx {
		return fn(s)
	}
	err := repositories.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		return fn(&Storage{db: tx, inTx: true, policy: s.policy, logger: s.logger})
	})
	return mapError(err)
}

func (s *Storage) Ping(ctx context.Context) error {
	if pinger, ok := s.db.(interface{ Ping(context.Context) error }); ok {
		return mapError(pinger.Ping(ctx))
	}
	var one int
	return mapError(s.db.QueryRow(ctx, "SELECT 1").Scan(&one))
}

// Close закрывает пул, если хранилище им владеет.
func (s *Storage) Close() {
	if closer, ok := s.db.(interface{ Close() }); ok && !s.inTx {
		closer.Close()
	}
}

// mapError переводит ошибки драйвера в ошибки приложения.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return apperrors.ErrNotFound
	case postgresql.IsUniqueViolation(err):
		return fmt.Errorf("%w: %v", apperrors.ErrConflict, err)
	case postgresql.IsConnectivityError(err):
		return postgresql.ClassifyError(err)
	}
	return err
}

func toSQL(b sq.Sqlizer) (string, []interface{}, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("ошибка построения SQL: %w", err)
	}
	return query, args, nil
}
