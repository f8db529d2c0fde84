package service

import (
	"context"
	"log/slog"

	"github.com/DanielPopoola/rental-payment-gateway/internal/core/domain"
	"github.com/DanielPopoola/rental-payment-gateway/internal/core/ports"
)

// PaymentDetails pairs a payment with the status of its booking so callers can
// spot a settled payment on an unconfirmed booking.
type PaymentDetails struct {
	Payment       *domain.Payment
	BookingStatus domain.BookingStatus
}

type PaymentQueryService struct {
	repo   ports.Repository
	lookup *bookingLookup
	logger *slog.Logger
}

func NewPaymentQueryService(repo ports.Repository, quality ports.DataQualityRecorder, logger *slog.Logger) *PaymentQueryService {
	lookup := newBookingLookup(quality, logger)
	return &PaymentQueryService{
		repo:   repo,
		lookup: lookup,
		logger: lookup.logger,
	}
}

func (s *PaymentQueryService) ExistsForBooking(ctx context.Context, rawBookingID string) (bool, error) {
	bookingID, err := s.lookup.normalize(rawBookingID)
	if err != nil {
		return false, err
	}
	exists, err := s.repo.PaymentExistsForBooking(ctx, bookingID)
	if err != nil {
		return false, s.failure(err, "payment exists", "booking_id", bookingID)
	}
	return exists, nil
}

// GetByBookingID tries an exact match, then a match ignoring stored whitespace.
func (s *PaymentQueryService) GetByBookingID(ctx context.Context, rawBookingID string) (*domain.Payment, error) {
	bookingID, err := s.lookup.normalize(rawBookingID)
	if err != nil {
		return nil, err
	}
	p, err := s.lookup.payment(ctx, s.repo, bookingID)
	if err != nil {
		return nil, s.failure(err, "find payment by booking id", "booking_id", bookingID)
	}
	return p, nil
}

func (s *PaymentQueryService) GetPaymentDetails(ctx context.Context, rawBookingID string) (*PaymentDetails, error) {
	p, err := s.GetByBookingID(ctx, rawBookingID)
	if err != nil {
		return nil, err
	}

	details := &PaymentDetails{Payment: p}
	b, err := s.lookup.booking(ctx, s.repo, p.BookingID)
	switch {
	case err == nil:
		details.BookingStatus = b.Status
	case !domain.IsErrorCode(err, domain.ErrCodeBookingNotFound):
		return nil, s.failure(err, "find booking", "booking_id", p.BookingID)
	}
	return details, nil
}

func (s *PaymentQueryService) GetByTransactionRef(ctx context.Context, ref string) (*domain.Payment, error) {
	if ref == "" {
		return nil, domain.NewMissingFieldError("transactionRef")
	}
	p, err := s.repo.FindPaymentByTransactionRef(ctx, ref)
	if err != nil {
		return nil, s.failure(err, "find payment by transaction ref", "transaction_ref", ref)
	}
	return p, nil
}

func (s *PaymentQueryService) GetByGatewayOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	if orderID == "" {
		return nil, domain.NewMissingFieldError("orderId")
	}
	p, err := s.repo.FindPaymentByGatewayOrderID(ctx, orderID)
	if err != nil {
		return nil, s.failure(err, "find payment by gateway order id", "order_id", orderID)
	}
	return p, nil
}

// ListAllForBooking returns every row stored under exactly this string,
// without normalizing it, so whitespace-damaged keys can be inspected.
func (s *PaymentQueryService) ListAllForBooking(ctx context.Context, rawBookingID string) ([]*domain.Payment, error) {
	if rawBookingID == "" {
		return nil, domain.NewMissingFieldError("bookingId")
	}
	payments, err := s.repo.FindPaymentsByRawBookingID(ctx, rawBookingID)
	if err != nil {
		return nil, s.failure(err, "list payments by raw booking id", "booking_id", rawBookingID)
	}
	return payments, nil
}

// ListInconsistencies returns COMPLETED payments whose booking is still PENDING.
func (s *PaymentQueryService) ListInconsistencies(ctx context.Context, limit int) ([]*domain.Payment, error) {
	if limit <= 0 {
		limit = 100
	}
	payments, err := s.repo.FindCompletedWithUnconfirmedBooking(ctx, nil, limit)
	if err != nil {
		return nil, s.failure(err, "list inconsistent payments")
	}
	return payments, nil
}

// failure passes not-found errors through and hides storage errors behind PERSISTENCE_FAILURE.
func (s *PaymentQueryService) failure(err error, op string, attrs ...any) error {
	if domain.IsNotFound(err) {
		return err
	}
	s.logger.Error("payment query failed", append([]any{"op", op, "error", err}, attrs...)...)
	return domain.NewPersistenceError(err)
}
