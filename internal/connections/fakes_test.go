package connections

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"inventory-system/internal/entities"
	"inventory-system/pkg/database/postgresql"
)

var errNotSupported = errors.New("not supported by fake pool")

// fakePool - пул в памяти: отвечает на выборку пользователя и считает закрытия.
type fakePool struct {
	mu       sync.Mutex
	opts     postgresql.ConnectionOptions
	users    []entities.User
	execErr  error
	execs    []string
	rows     *fakeRows
	closed   atomic.Bool
	closeCnt atomic.Int32
}

func (p *fakePool) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.execs = append(p.execs, sql)
	if p.execErr != nil {
		return pgconn.CommandTag{}, p.execErr
	}
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func (p *fakePool) Query(context.Context, string, ...any) (pgx.Rows, error) {
	if p.rows == nil {
		return nil, errNotSupported
	}
	return p.rows, nil
}

func (p *fakePool) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, u := range p.users {
		for _, a := range args {
			if a == u.Email || a == u.Username {
				return fakeRow{values: []any{
					u.ID, u.Username, u.Email, u.Password, u.Role, u.Department,
					u.IsActive, u.LastLogin, u.RolePassword, u.CreatedAt, u.UpdatedAt,
				}}
			}
		}
	}
	return fakeRow{err: pgx.ErrNoRows}
}

func (p *fakePool) Begin(context.Context) (pgx.Tx, error) { return nil, errNotSupported }

func (p *fakePool) Ping(context.Context) error { return nil }

func (p *fakePool) Close() {
	p.closed.Store(true)
	p.closeCnt.Add(1)
}

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return errors.New("fakeRow: column count mismatch")
	}
	for i, d := range dest {
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(r.values[i]))
	}
	return nil
}

// fakeRows реализует pgx.Rows поверх заранее заданных значений.
type fakeRows struct {
	columns []string
	data    [][]any
	tag     string
	pos     int
}

func (r *fakeRows) Close()                        {}
func (r *fakeRows) Err() error                    { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag { return pgconn.NewCommandTag(r.tag) }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription {
	out := make([]pgconn.FieldDescription, len(r.columns))
	for i, c := range r.columns {
		out[i] = pgconn.FieldDescription{Name: c}
	}
	return out
}
func (r *fakeRows) Next() bool {
	if r.pos >= len(r.data) {
		return false
	}
	r.pos++
	return true
}
func (r *fakeRows) Scan(...any) error     { return errNotSupported }
func (r *fakeRows) Values() ([]any, error) { return r.data[r.pos-1], nil }
func (r *fakeRows) RawValues() [][]byte    { return nil }
func (r *fakeRows) Conn() *pgx.Conn        { return nil }

// fakeOpener открывает fakePool и запоминает все открытые пулы.
type fakeOpener struct {
	mu     sync.Mutex
	pools  []*fakePool
	users  []entities.User
	failOn map[string]error
}

func (o *fakeOpener) open(_ context.Context, opts postgresql.ConnectionOptions) (Pool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err, ok := o.failOn[opts.User]; ok {
		return nil, err
	}
	p := &fakePool{opts: opts, users: o.users}
	o.pools = append(o.pools, p)
	return p, nil
}

func (o *fakeOpener) opened() []*fakePool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]*fakePool(nil), o.pools...)
}
