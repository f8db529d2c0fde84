package postgres

import (
	"context"
	"fmt"

	"github.com/DanielPopoola/rental-payment-gateway/internal/core/ports"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements ports.Repository on PostgreSQL. Payments and bookings
// share one executor so that both can take part in the same transaction.
type Repository struct {
	pool *pgxpool.Pool
	q    Executor
}

func NewRepository(db *DB) *Repository {
	return &Repository{
		pool: db.Pool,
		q:    db.Pool,
	}
}

// WithTx executes a function within a database transaction
func (r *Repository) WithTx(ctx context.Context, fn func(ports.Repository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Rollback is a no-op once Commit has succeeded.
	defer tx.Rollback(ctx)

	repoWithTx := &Repository{
		pool: r.pool,
		q:    tx,
	}

	if err := fn(repoWithTx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
