package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type contextKey string

const txKey contextKey = "tx"

// Querier is the subset of pgx shared by the pool and a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Transactor runs a function inside a transaction. Repositories called with the
// context passed to fn join that transaction.
type Transactor interface {
	// InTx runs fn in a transaction. A non-empty lockKey takes a transaction-scoped
	// advisory lock on that key before fn runs, serializing writers that share it.
	InTx(ctx context.Context, lockKey string, fn func(ctx context.Context) error) error
}

var _ Transactor = (*DB)(nil)

// Conn returns the transaction carried by ctx, or the pool when there is none.
func (db *DB) Conn(ctx context.Context) Querier {
	if tx, ok := TxFromContext(ctx); ok {
		return tx
	}
	return db.Pool
}

// TxFromContext retrieves the transaction stored by InTx.
func TxFromContext(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey).(pgx.Tx)
	return tx, ok
}

// InTx implements Transactor. Nested calls reuse the outer transaction.
func (db *DB) InTx(ctx context.Context, lockKey string, fn func(ctx context.Context) error) (err error) {
	if _, ok := TxFromContext(ctx); ok {
		if lockKey != "" {
			if err := advisoryXactLock(ctx, db.Conn(ctx), lockKey); err != nil {
				return err
			}
		}
		return fn(ctx)
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(context.Background()); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				err = fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
			}
		}
	}()

	if lockKey != "" {
		if err = advisoryXactLock(ctx, tx, lockKey); err != nil {
			return err
		}
	}

	if err = fn(context.WithValue(ctx, txKey, tx)); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// advisoryXactLock blocks until the advisory lock for key is held by the current
// transaction. It is released on commit or rollback.
func advisoryXactLock(ctx context.Context, q Querier, key string) error {
	if _, err := q.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtextextended($1, 0))", key); err != nil {
		return fmt.Errorf("failed to acquire advisory lock: %w", err)
	}
	return nil
}
