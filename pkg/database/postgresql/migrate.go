package postgresql

import (
	"context"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

func prepareGoose() error {
	goose.SetBaseFS(migrationsFS)
	return goose.SetDialect("postgres")
}

// Migrate применяет все встроенные миграции.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if err := prepareGoose(); err != nil {
		return fmt.Errorf("goose: %w", err)
	}
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := goose.UpContext(ctx, db, migrationsDir); err != nil {
		return fmt.Errorf("не удалось применить миграции: %w", err)
	}
	return nil
}

// MigrationVersion возвращает текущую версию схемы.
func MigrationVersion(ctx context.Context, pool *pgxpool.Pool) (int64, error) {
	if err := prepareGoose(); err != nil {
		return 0, fmt.Errorf("goose: %w", err)
	}
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	return goose.GetDBVersionContext(ctx, db)
}
