package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/DanielPopoola/rental-payment-gateway/internal/core/domain"
	"github.com/shopspring/decimal"
)

const paymentColumns = `id, booking_id, customer_id, amount, method, status,
		gateway_order_id, gateway_payment_id, transaction_ref,
		transaction_time, created_at`

func (r *Repository) SavePayment(ctx context.Context, p *domain.Payment) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO payments (`+paymentColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
			booking_id = excluded.booking_id,
			customer_id = excluded.customer_id,
			amount = excluded.amount,
			method = excluded.method,
			status = excluded.status,
			gateway_order_id = excluded.gateway_order_id,
			gateway_payment_id = excluded.gateway_payment_id,
			transaction_ref = excluded.transaction_ref,
			transaction_time = excluded.transaction_time`,
		p.ID.String(),
		p.BookingID,
		p.CustomerID,
		p.Amount.String(),
		string(p.Method),
		string(p.Status),
		nullable(p.GatewayOrderID),
		nullable(p.GatewayPaymentID),
		nullable(p.TransactionRef),
		formatTime(p.TransactionTime),
		formatTime(p.CreatedAt),
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return domain.NewStorageConflictError(constraintName(err), err)
		}
		return fmt.Errorf("failed to save payment: %w", err)
	}
	return nil
}

func (r *Repository) FindPaymentByBookingID(ctx context.Context, bookingID string) (*domain.Payment, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE booking_id = ?`,
		bookingID,
	)
	return scanPayment(row, bookingID)
}

func (r *Repository) FindPaymentByBookingIDTolerant(ctx context.Context, bookingID string) (*domain.Payment, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments
		 WHERE TRIM(booking_id, char(32, 9, 10, 13)) = TRIM(?, char(32, 9, 10, 13))
		 ORDER BY created_at
		 LIMIT 1`,
		bookingID,
	)
	return scanPayment(row, bookingID)
}

func (r *Repository) PaymentExistsForBooking(ctx context.Context, bookingID string) (bool, error) {
	var exists bool
	err := r.q.QueryRowContext(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM payments WHERE booking_id = ?1 OR TRIM(booking_id, char(32, 9, 10, 13)) = TRIM(?1, char(32, 9, 10, 13))
		 )`,
		bookingID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check payment existence: %w", err)
	}
	return exists, nil
}

func (r *Repository) FindPaymentsByRawBookingID(ctx context.Context, bookingID string) ([]*domain.Payment, error) {
	return r.queryPayments(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE booking_id = ? ORDER BY created_at`,
		bookingID,
	)
}

func (r *Repository) FindPaymentByGatewayPaymentID(ctx context.Context, gatewayPaymentID string) (*domain.Payment, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE gateway_payment_id = ?`,
		gatewayPaymentID,
	)
	return scanPayment(row, gatewayPaymentID)
}

func (r *Repository) FindPaymentByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*domain.Payment, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments
		 WHERE gateway_order_id = ?
		 ORDER BY created_at DESC
		 LIMIT 1`,
		gatewayOrderID,
	)
	return scanPayment(row, gatewayOrderID)
}

func (r *Repository) FindPaymentByTransactionRef(ctx context.Context, ref string) (*domain.Payment, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE transaction_ref = ?`,
		ref,
	)
	return scanPayment(row, ref)
}

func (r *Repository) FindCompletedWithUnconfirmedBooking(ctx context.Context, after *domain.PaymentCursor, limit int) ([]*domain.Payment, error) {
	query := `SELECT p.id, p.booking_id, p.customer_id, p.amount, p.method, p.status,
			p.gateway_order_id, p.gateway_payment_id, p.transaction_ref,
			p.transaction_time, p.created_at
		 FROM payments p
		 JOIN bookings b ON TRIM(b.booking_id, char(32, 9, 10, 13)) = TRIM(p.booking_id, char(32, 9, 10, 13))
		 WHERE p.status = 'COMPLETED' AND b.status = 'PENDING'`
	args := []any{limit}
	if after != nil {
		// timeLayout is fixed width, so text order is time order.
		query += `
		 AND (p.transaction_time > ?2 OR (p.transaction_time = ?2 AND p.id > ?3))`
		args = append(args, formatTime(after.TransactionTime), after.ID.String())
	}
	query += `
		 ORDER BY p.transaction_time, p.id
		 LIMIT ?1`

	return r.queryPayments(ctx, query, args...)
}

func (r *Repository) queryPayments(ctx context.Context, query string, args ...any) ([]*domain.Payment, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	var payments []*domain.Payment
	for rows.Next() {
		p, err := scanPaymentRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payments: %w", err)
	}
	return payments, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPayment(row scanner, key string) (*domain.Payment, error) {
	p, err := scanPaymentRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewPaymentNotFoundError(key)
		}
		return nil, fmt.Errorf("failed to scan payment: %w", err)
	}
	return p, nil
}

func scanPaymentRow(row scanner) (*domain.Payment, error) {
	var (
		p                          domain.Payment
		amount, method, status     string
		transactionTime, createdAt string
	)
	if err := row.Scan(
		&p.ID,
		&p.BookingID,
		&p.CustomerID,
		&amount,
		&method,
		&status,
		&p.GatewayOrderID,
		&p.GatewayPaymentID,
		&p.TransactionRef,
		&transactionTime,
		&createdAt,
	); err != nil {
		return nil, err
	}

	var err error
	if p.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("parse stored amount %q: %w", amount, err)
	}
	if p.TransactionTime, err = parseTime(transactionTime); err != nil {
		return nil, fmt.Errorf("parse transaction_time: %w", err)
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	p.Method = domain.PaymentMethod(method)
	p.Status = domain.PaymentStatus(status)
	return &p, nil
}
