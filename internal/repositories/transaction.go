package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"inventory-system/pkg/database/postgresql"
)

// WithTx выполняет fn в одной транзакции на db. Паника откатывает транзакцию и пробрасывается дальше.
func WithTx(ctx context.Context, db postgresql.Querier, fn func(tx pgx.Tx) error) (err error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("не удалось начать транзакцию: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
			if err != nil {
				err = fmt.Errorf("ошибка при коммите транзакции: %w", err)
			}
		}
	}()

	err = fn(tx)
	return err
}
