package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/DanielPopoola/rental-payment-gateway/internal/core/domain"
)

const bookingColumns = `id, booking_id, customer_id, customer_name, customer_email, status, created_at, updated_at`

func (r *Repository) SaveBooking(ctx context.Context, b *domain.Booking) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO bookings (`+bookingColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
			status = excluded.status,
			customer_name = excluded.customer_name,
			customer_email = excluded.customer_email,
			updated_at = excluded.updated_at`,
		b.ID.String(),
		b.BookingID,
		b.CustomerID,
		b.CustomerName,
		b.CustomerEmail,
		string(b.Status),
		formatTime(b.CreatedAt),
		formatTime(b.UpdatedAt),
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
	row := r.q.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE booking_id = ?`,
		bookingID,
	)
	return scanBooking(row, bookingID)
}

func (r *Repository) FindBookingByBookingIDTolerant(ctx context.Context, bookingID string) (*domain.Booking, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings
		 WHERE TRIM(booking_id, char(32, 9, 10, 13)) = TRIM(?, char(32, 9, 10, 13))
		 ORDER BY created_at
		 LIMIT 1`,
		bookingID,
	)
	return scanBooking(row, bookingID)
}

func scanBooking(row scanner, key string) (*domain.Booking, error) {
	var (
		b                    domain.Booking
		status               string
		createdAt, updatedAt string
	)
	err := row.Scan(
		&b.ID,
		&b.BookingID,
		&b.CustomerID,
		&b.CustomerName,
		&b.CustomerEmail,
		&status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewBookingNotFoundError(key)
		}
		return nil, fmt.Errorf("failed to scan booking: %w", err)
	}

	if b.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if b.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	b.Status = domain.BookingStatus(status)
	return &b, nil
}
