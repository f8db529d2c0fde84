package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/DanielPopoola/rental-payment-gateway/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

const bookingColumns = `id, booking_id, customer_id, customer_name, customer_email, status, created_at, updated_at`

// SaveBooking inserts the booking or replaces the row with the same id.
func (r *Repository) SaveBooking(ctx context.Context, b *domain.Booking) error {
	query := `INSERT INTO bookings (
				id, booking_id, customer_id, customer_name, customer_email, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO UPDATE SET
				status = EXCLUDED.status,
				customer_name = EXCLUDED.customer_name,
				customer_email = EXCLUDED.customer_email,
				updated_at = EXCLUDED.updated_at
	`

	_, err := r.q.Exec(ctx, query,
		b.ID,
		b.BookingID,
		b.CustomerID,
		b.CustomerName,
		b.CustomerEmail,
		b.Status,
		b.CreatedAt,
		b.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return domain.NewStorageConflictError(constraintName(err), err)
		}
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

func (r *Repository) FindBookingByBookingID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + `
			FROM bookings
			WHERE booking_id = $1
			`

	return scanBooking(r.q.QueryRow(ctx, query, bookingID), bookingID)
}

func (r *Repository) FindBookingByBookingIDTolerant(ctx context.Context, bookingID string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + `
			FROM bookings
			WHERE BTRIM(booking_id, E' \t\r\n') = BTRIM($1, E' \t\r\n')
			ORDER BY created_at
			LIMIT 1
			`

	return scanBooking(r.q.QueryRow(ctx, query, bookingID), bookingID)
}

func scanBooking(row pgx.Row, key string) (*domain.Booking, error) {
	var b domain.Booking
	err := row.Scan(
		&b.ID,
		&b.BookingID,
		&b.CustomerID,
		&b.CustomerName,
		&b.CustomerEmail,
		&b.Status,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewBookingNotFoundError(key)
		}
		return nil, fmt.Errorf("failed to scan booking: %w", err)
	}
	return &b, nil
}
