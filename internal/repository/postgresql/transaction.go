package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/zenith-erp/erp-backend-go/internal/pkg/database"
)

type ctxKey int

const txKey ctxKey = iota

// WithTransaction executes fn inside a database transaction. The
// transaction is injected into the context so repository methods called
// from fn run on it transparently.
func WithTransaction(ctx context.Context, db *database.DB, fn func(ctx context.Context) error) error {
	tx, err := db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey, tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback error: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// withDayLock runs fn in a transaction holding an advisory lock keyed on
// (employeeID, day). Two concurrent clock transitions for the same employee
// and day serialize here, so both can never observe the same latest event.
// Requests for other employees or days proceed in parallel.
func withDayLock(ctx context.Context, db *database.DB, employeeID string, day time.Time, fn func(ctx context.Context) error) error {
	return WithTransaction(ctx, db, func(ctx context.Context) error {
		q := GetQuerier(ctx, db)
		key := employeeID + ":" + day.Format("2006-01-02")
		if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key); err != nil {
			return fmt.Errorf("acquire day lock: %w", err)
		}
		return fn(ctx)
	})
}

// GetQuerier returns either transaction or pool
// Used in repositories to support both transactional and non-transactional operations
func GetQuerier(ctx context.Context, db *database.DB) database.Querier {
	if tx, ok := ctx.Value(txKey).(pgx.Tx); ok {
		return tx
	}
	return db.Pool
}
