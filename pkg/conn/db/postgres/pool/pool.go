// Package pool narrows pgxpool down to the methods orcaobra uses, so that
// repositories depend on interfaces instead of concrete pgx types.
package pool

import (
	"context"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// Queryer sends SQL. Pool and Tx are both Queryers.
type Queryer interface {
	// Exec runs a command which has no result rows.
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)

	// Query runs a command which has result rows.
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)

	// QueryRow runs a command which has just one result row.
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Begin starts a transaction. On a Tx, it starts a savepoint.
type Begin interface {
	Begin(ctx context.Context) (Tx, error)
}

// Tx is the subset of pgx.Tx.
//
// pgx.Tx does not satisfy Tx as is, since Begin returns pgx.Tx.
// Get Tx from Pool.Begin.
type Tx interface {
	Queryer
	Begin

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Pool is the subset of *pgxpool.Pool. Wrap a *pgxpool.Pool to get one.
type Pool interface {
	Queryer
	Begin

	Ping(ctx context.Context) error
	Close()
}

// Connect opens a pool to the database at uri, and pings it once.
func Connect(ctx context.Context, uri string) (Pool, error) {
	p, err := pgxpool.Connect(ctx, uri)
	if err != nil {
		return nil, err
	}
	pool := Wrap(p)
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func Wrap(p *pgxpool.Pool) Pool {
	return &wpool{base: p}
}

type wtx struct{ pgx.Tx }

func (t wtx) Begin(ctx context.Context) (Tx, error) {
	tx, err := t.Tx.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return wtx{tx}, nil
}

type wpool struct {
	base *pgxpool.Pool
}

func (p *wpool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return p.base.Exec(ctx, sql, args...)
}

func (p *wpool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return p.base.Query(ctx, sql, args...)
}

func (p *wpool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return p.base.QueryRow(ctx, sql, args...)
}

func (p *wpool) Begin(ctx context.Context) (Tx, error) {
	tx, err := p.base.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return wtx{tx}, nil
}

func (p *wpool) Ping(ctx context.Context) error {
	return p.base.Ping(ctx)
}

func (p *wpool) Close() {
	p.base.Close()
}

var (
	_ Pool = &wpool{}
	_ Tx   = wtx{}
)
