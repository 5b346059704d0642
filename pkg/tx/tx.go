// Package tx carries a database transaction through a context so stores from
// different features can participate in one commit. Stores resolve their
// executor from the context and fall back to the shared pool when no
// transaction is open.
package tx

import (
	"context"
	"database/sql"
	"fmt"
)

type txKey struct{}

// With returns a context carrying the transaction.
func With(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// From extracts the transaction from the context, if any.
func From(ctx context.Context) (*sql.Tx, bool) {
	t, ok := ctx.Value(txKey{}).(*sql.Tx)
	return t, ok
}

// Runner runs a function within a transaction boundary. The SQL implementation
// opens a real transaction; memory stores use Nop since they have no
// transactional semantics to enforce.
type Runner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// SQLRunner runs the function inside a database/sql transaction injected into
// the context via With.
type SQLRunner struct {
	DB *sql.DB
}

func (r SQLRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(With(ctx, t)); err != nil {
		_ = t.Rollback()
		return err
	}
	if err := t.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Nop satisfies Runner without opening a transaction.
type Nop struct{}

func (Nop) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
