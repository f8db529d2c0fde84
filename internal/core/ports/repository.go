package ports

import (
	"context"

	"github.com/DanielPopoola/rental-payment-gateway/internal/core/domain"
)

// PaymentRepository stores at most one payment per booking. Lookups that miss
// return a PAYMENT_NOT_FOUND DomainError; a write that violates a unique
// constraint returns a STORAGE_CONFLICT DomainError.
type PaymentRepository interface {
	SavePayment(ctx context.Context, payment *domain.Payment) error
	FindPaymentByBookingID(ctx context.Context, bookingID string) (*domain.Payment, error)
	// FindPaymentByBookingIDTolerant ignores whitespace around the stored key.
	FindPaymentByBookingIDTolerant(ctx context.Context, bookingID string) (*domain.Payment, error)
	PaymentExistsForBooking(ctx context.Context, bookingID string) (bool, error)
	// FindPaymentsByRawBookingID matches the stored key byte for byte, whitespace included.
	FindPaymentsByRawBookingID(ctx context.Context, bookingID string) ([]*domain.Payment, error)
	FindPaymentByGatewayPaymentID(ctx context.Context, gatewayPaymentID string) (*domain.Payment, error)
	FindPaymentByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*domain.Payment, error)
	FindPaymentByTransactionRef(ctx context.Context, ref string) (*domain.Payment, error)
	// FindCompletedWithUnconfirmedBooking pages in (transaction_time, id) order.
	// A nil cursor starts from the oldest row.
	FindCompletedWithUnconfirmedBooking(ctx context.Context, after *domain.PaymentCursor, limit int) ([]*domain.Payment, error)
}

// BookingRepository reads and updates bookings. Lookups that miss return a
// BOOKING_NOT_FOUND DomainError.
type BookingRepository interface {
	FindBookingByBookingID(ctx context.Context, bookingID string) (*domain.Booking, error)
	FindBookingByBookingIDTolerant(ctx context.Context, bookingID string) (*domain.Booking, error)
	SaveBooking(ctx context.Context, booking *domain.Booking) error
}

// Repository is the storage seen by the payment services.
type Repository interface {
	PaymentRepository
	BookingRepository

	// WithTx executes fn within a single database transaction. The
	// transaction is rolled back when fn returns an error.
	WithTx(ctx context.Context, fn func(Repository) error) error
}
