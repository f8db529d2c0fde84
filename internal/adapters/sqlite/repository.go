package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/DanielPopoola/rental-payment-gateway/internal/core/ports"
)

// Repository implements ports.Repository on SQLite.
type Repository struct {
	conn *sql.DB
	q    Executor
}

func NewRepository(db *DB) *Repository {
	return &Repository{
		conn: db.Conn,
		q:    db.Conn,
	}
}

// WithTx executes a function within a database transaction
func (r *Repository) WithTx(ctx context.Context, fn func(ports.Repository) error) error {
	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	repoWithTx := &Repository{
		conn: r.conn,
		q:    tx,
	}

	if err := fn(repoWithTx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
