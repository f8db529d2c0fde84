package testhelpers

import (
	"context"
	"testing"
	"time"

	"github.com/DanielPopoola/rental-payment-gateway/internal/core/domain"
	"github.com/DanielPopoola/rental-payment-gateway/internal/core/ports"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// CreateBooking stores a booking with the given raw identifier and status.
func CreateBooking(t *testing.T, ctx context.Context, repo ports.BookingRepository, bookingID string, status domain.BookingStatus) *domain.Booking {
	now := time.Now().UTC().Truncate(time.Microsecond)
	b := &domain.Booking{
		ID:            uuid.New(),
		BookingID:     bookingID,
		CustomerID:    "cust-" + uuid.NewString()[:8],
		CustomerName:  "Test Customer",
		CustomerEmail: "customer@example.com",
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, repo.SaveBooking(ctx, b))
	return b
}

// CreateOnlinePayment stores a COMPLETED online payment under the raw booking
// identifier, so legacy whitespace can be reproduced.
func CreateOnlinePayment(t *testing.T, ctx context.Context, repo ports.PaymentRepository, bookingID, gatewayPaymentID string) *domain.Payment {
	p := domain.NewOnlinePayment(
		&domain.Booking{BookingID: bookingID, CustomerID: "cust-1"},
		decimal.RequireFromString("1500.00"),
		"order_"+gatewayPaymentID,
		gatewayPaymentID,
		time.Now().UTC().Truncate(time.Microsecond),
	)
	p.BookingID = bookingID
	require.NoError(t, repo.SavePayment(ctx, p))
	return p
}
