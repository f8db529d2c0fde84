package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/DanielPopoola/rental-payment-gateway/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const paymentColumns = `id, booking_id, customer_id, amount::text, method, status,
				gateway_order_id, gateway_payment_id, transaction_ref,
				transaction_time, created_at`

// SavePayment inserts the payment or replaces the row with the same id.
func (r *Repository) SavePayment(ctx context.Context, p *domain.Payment) error {
	query := `INSERT INTO payments (
				id, booking_id, customer_id, amount, method, status,
				gateway_order_id, gateway_payment_id, transaction_ref,
				transaction_time, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (id) DO UPDATE SET
				booking_id = EXCLUDED.booking_id,
				customer_id = EXCLUDED.customer_id,
				amount = EXCLUDED.amount,
				method = EXCLUDED.method,
				status = EXCLUDED.status,
				gateway_order_id = EXCLUDED.gateway_order_id,
				gateway_payment_id = EXCLUDED.gateway_payment_id,
				transaction_ref = EXCLUDED.transaction_ref,
				transaction_time = EXCLUDED.transaction_time
	`

	_, err := r.q.Exec(ctx, query,
		p.ID,
		p.BookingID,
		p.CustomerID,
		p.Amount.String(),
		p.Method,
		p.Status,
		p.GatewayOrderID,
		p.GatewayPaymentID,
		p.TransactionRef,
		p.TransactionTime,
		p.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return domain.NewStorageConflictError(constraintName(err), err)
		}
		return fmt.Errorf("failed to save payment: %w", err)
	}
	return nil
}

// FindPaymentByBookingID matches the stored booking id exactly.
func (r *Repository) FindPaymentByBookingID(ctx context.Context, bookingID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + `
			FROM payments
			WHERE booking_id = $1
			`

	return scanPayment(r.q.QueryRow(ctx, query, bookingID), bookingID)
}

// FindPaymentByBookingIDTolerant trims both sides before comparing, for rows
// written before identifiers were normalized.
func (r *Repository) FindPaymentByBookingIDTolerant(ctx context.Context, bookingID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + `
			FROM payments
			WHERE BTRIM(booking_id, E' \t\r\n') = BTRIM($1, E' \t\r\n')
			ORDER BY created_at
			LIMIT 1
			`

	return scanPayment(r.q.QueryRow(ctx, query, bookingID), bookingID)
}

func (r *Repository) PaymentExistsForBooking(ctx context.Context, bookingID string) (bool, error) {
	query := `SELECT EXISTS (
				SELECT 1 FROM payments
				WHERE booking_id = $1 OR BTRIM(booking_id, E' \t\r\n') = BTRIM($1, E' \t\r\n')
			)`

	var exists bool
	if err := r.q.QueryRow(ctx, query, bookingID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check payment existence: %w", err)
	}
	return exists, nil
}

// FindPaymentsByRawBookingID returns every row whose stored key equals the
// argument byte for byte.
func (r *Repository) FindPaymentsByRawBookingID(ctx context.Context, bookingID string) ([]*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + `
			FROM payments
			WHERE booking_id = $1
			ORDER BY created_at
			`

	return r.queryPayments(ctx, query, bookingID)
}

func (r *Repository) FindPaymentByGatewayPaymentID(ctx context.Context, gatewayPaymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + `
			FROM payments
			WHERE gateway_payment_id = $1
			`

	return scanPayment(r.q.QueryRow(ctx, query, gatewayPaymentID), gatewayPaymentID)
}

func (r *Repository) FindPaymentByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + `
			FROM payments
			WHERE gateway_order_id = $1
			ORDER BY created_at DESC
			LIMIT 1
			`

	return scanPayment(r.q.QueryRow(ctx, query, gatewayOrderID), gatewayOrderID)
}

func (r *Repository) FindPaymentByTransactionRef(ctx context.Context, ref string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + `
			FROM payments
			WHERE transaction_ref = $1
			`

	return scanPayment(r.q.QueryRow(ctx, query, ref), ref)
}

// FindCompletedWithUnconfirmedBooking lists settled payments whose booking is still PENDING.
func (r *Repository) FindCompletedWithUnconfirmedBooking(ctx context.Context, after *domain.PaymentCursor, limit int) ([]*domain.Payment, error) {
	query := `SELECT p.id, p.booking_id, p.customer_id, p.amount::text, p.method, p.status,
				p.gateway_order_id, p.gateway_payment_id, p.transaction_ref,
				p.transaction_time, p.created_at
			FROM payments p
			JOIN bookings b ON BTRIM(b.booking_id, E' \t\r\n') = BTRIM(p.booking_id, E' \t\r\n')
			WHERE p.status = 'COMPLETED' AND b.status = 'PENDING'
			`
	args := []any{limit}
	if after != nil {
		query += `AND (p.transaction_time, p.id) > ($2::timestamptz, $3::uuid)
			`
		args = append(args, after.TransactionTime, after.ID)
	}
	query += `ORDER BY p.transaction_time, p.id
			LIMIT $1
			`

	return r.queryPayments(ctx, query, args...)
}

func (r *Repository) queryPayments(ctx context.Context, query string, args ...any) ([]*domain.Payment, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}

	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Payment, error) {
		return scanPaymentRow(row)
	})
	if err != nil {
		return nil, fmt.Errorf("error occurred while scanning rows: %w", err)
	}
	return results, nil
}

// scanPayment scans a single row, mapping pgx.ErrNoRows to PAYMENT_NOT_FOUND.
func scanPayment(row pgx.Row, key string) (*domain.Payment, error) {
	p, err := scanPaymentRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewPaymentNotFoundError(key)
		}
		return nil, fmt.Errorf("failed to scan payment: %w", err)
	}
	return p, nil
}

func scanPaymentRow(row pgx.Row) (*domain.Payment, error) {
	var (
		p      domain.Payment
		amount string
	)
	err := row.Scan(
		&p.ID,
		&p.BookingID,
		&p.CustomerID,
		&amount,
		&p.Method,
		&p.Status,
		&p.GatewayOrderID,
		&p.GatewayPaymentID,
		&p.TransactionRef,
		&p.TransactionTime,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("parse stored amount %q: %w", amount, err)
	}
	return &p, nil
}
