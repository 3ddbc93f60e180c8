// Package tx carries an open *sql.Tx on the context so stores can join a
// caller's unit of work without changing their signatures.
package tx

import (
	"context"
	"database/sql"
)

type ctxKey struct{}

// Beginner is satisfied by *sql.DB.
type Beginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Executor is the subset of *sql.DB and *sql.Tx the stores write through.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// From returns the transaction stored by Run, if any.
func From(ctx context.Context) (*sql.Tx, bool) {
	t, ok := ctx.Value(ctxKey{}).(*sql.Tx)
	return t, ok
}

// Exec picks the ambient transaction when present, otherwise fallback.
func Exec(ctx context.Context, fallback Executor) Executor {
	if t, ok := From(ctx); ok {
		return t
	}
	return fallback
}

// Run executes fn inside a transaction. Nested calls reuse the outer
// transaction; only the outermost call commits.
func Run(ctx context.Context, db Beginner, fn func(ctx context.Context) error) error {
	if _, ok := From(ctx); ok {
		return fn(ctx)
	}
	t, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(context.WithValue(ctx, ctxKey{}, t)); err != nil {
		_ = t.Rollback()
		return err
	}
	return t.Commit()
}
