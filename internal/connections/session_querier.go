package connections

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"inventory-system/pkg/contextkeys"
	"inventory-system/pkg/database/postgresql"
	apperrors "inventory-system/pkg/errors"
)

// SessionQuerier направляет каждый вызов в пул сессии из контекста запроса.
// Им питается postgres.Storage в режиме переключения ролей.
func (m *Manager) SessionQuerier() postgresql.Querier {
	return &sessionQuerier{m: m}
}

type sessionQuerier struct {
	m *Manager
}

func (q *sessionQuerier) resolve(ctx context.Context) (Pool, error) {
	sid, ok := contextkeys.SessionID(ctx)
	if !ok {
		return nil, apperrors.ErrNoActiveConnection
	}
	pool, ok := q.m.GetSessionConnection(sid)
	if !ok {
		return nil, apperrors.ErrNoActiveConnection
	}
	return pool, nil
}

func (q *sessionQuerier) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	pool, err := q.resolve(ctx)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	return pool.Exec(ctx, sql, arguments...)
}

func (q *sessionQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	pool, err := q.resolve(ctx)
	if err != nil {
		return nil, err
	}
	return pool.Query(ctx, sql, args...)
}

func (q *sessionQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	pool, err := q.resolve(ctx)
	if err != nil {
		return errRow{err: err}
	}
	return pool.QueryRow(ctx, sql, args...)
}

func (q *sessionQuerier) Begin(ctx context.Context) (pgx.Tx, error) {
	pool, err := q.resolve(ctx)
	if err != nil {
		return nil, err
	}
	return pool.Begin(ctx)
}

// Ping проверяет пул текущей сессии.
func (q *sessionQuerier) Ping(ctx context.Context) error {
	pool, err := q.resolve(ctx)
	if err != nil {
		return err
	}
	return pool.Ping(ctx)
}

type errRow struct {
	err error
}

func (r errRow) Scan(...any) error { return r.err }
