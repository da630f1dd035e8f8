package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type txKey struct{}

// Querier is satisfied by both *sqlx.DB and *sqlx.Tx
type Querier interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// WithTx runs fn inside a transaction carried by the context.
// Repository calls made with the returned context join that transaction.
// Nested calls reuse the outer transaction.
//
// Usage in services:
//
//	err := s.db.WithTx(ctx, func(ctx context.Context) error {
//	    if err := database.LockXact(ctx, s.db.Q(ctx), signupLockKey); err != nil {
//	        return err
//	    }
//	    return s.repo.Create(ctx, admin)
//	})
func (db *DB) WithTx(ctx context.Context, fn func(context.Context) error) error {
	if db.getTx(ctx) != nil {
		return fn(ctx)
	}
	return db.Transaction(ctx, func(tx *sqlx.Tx) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// Q returns the transaction stored in ctx, or the pool when there is none
func (db *DB) Q(ctx context.Context) Querier {
	if tx := db.getTx(ctx); tx != nil {
		return tx
	}
	return db.DB
}

// getTx extracts transaction from context if present
func (db *DB) getTx(ctx context.Context) *sqlx.Tx {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return nil
}

// LockXact takes a transaction-scoped advisory lock, released on commit or rollback
func LockXact(ctx context.Context, q Querier, key int64) error {
	if _, err := q.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", key); err != nil {
		return fmt.Errorf("failed to acquire advisory lock %d: %w", key, err)
	}
	return nil
}

// Transaction runs fn in a transaction, committing when it returns nil and
// rolling back on error or panic
func (db *DB) Transaction(ctx context.Context, fn func(*sqlx.Tx) error) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			db.rollback(tx)
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		db.rollback(tx)
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (db *DB) rollback(tx *sqlx.Tx) {
	if err := tx.Rollback(); err != nil {
		db.logger.Error().Err(err).Msg("failed to rollback transaction")
	}
}
