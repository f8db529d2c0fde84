package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/DanielPopoola/rental-payment-gateway/internal/core/domain"
	"github.com/DanielPopoola/rental-payment-gateway/internal/core/ports"
	"github.com/google/uuid"
)

type OnlinePaymentCommand struct {
	OrderID   string
	PaymentID string
	Signature string
	BookingID string
	// Amount is in gateway minor units.
	Amount string
}

// validate reports the first missing field in a fixed order.
func (c OnlinePaymentCommand) validate() error {
	fields := []struct{ name, value string }{
		{"orderId", c.OrderID},
		{"paymentId", c.PaymentID},
		{"signature", c.Signature},
		{"bookingId", c.BookingID},
		{"amount", c.Amount},
	}
	for _, f := range fields {
		if f.value == "" {
			return domain.NewMissingFieldError(f.name)
		}
	}
	return nil
}

type CODPaymentCommand struct {
	BookingID string
	// Amount is in major units, as a decimal string.
	Amount        string
	CustomerName  string
	CustomerEmail string
}

// ReconcileService links settled payments to bookings. It is the only writer
// of payment rows.
type ReconcileService struct {
	repo            ports.Repository
	gateway         ports.GatewayPort
	lookup          *bookingLookup
	quality         ports.DataQualityRecorder
	minorUnitFactor int64
	logger          *slog.Logger
	now             func() time.Time
}

func NewReconcileService(
	repo ports.Repository,
	gateway ports.GatewayPort,
	quality ports.DataQualityRecorder,
	minorUnitFactor int64,
	logger *slog.Logger,
) *ReconcileService {
	lookup := newBookingLookup(quality, logger)
	if minorUnitFactor <= 0 {
		minorUnitFactor = domain.DefaultMinorUnitFactor
	}
	return &ReconcileService{
		repo:            repo,
		gateway:         gateway,
		lookup:          lookup,
		quality:         lookup.quality,
		minorUnitFactor: minorUnitFactor,
		logger:          lookup.logger,
		now:             time.Now,
	}
}

// ReconcileOnlinePayment records a payment reported by the checkout after
// verifying its signature, then confirms the booking. Repeating the call with
// the same arguments returns the stored row.
func (s *ReconcileService) ReconcileOnlinePayment(ctx context.Context, cmd OnlinePaymentCommand) (*Reconciliation, error) {
	if err := cmd.validate(); err != nil {
		return nil, err
	}

	if !s.gateway.VerifySignature(ctx, cmd.OrderID, cmd.PaymentID, cmd.Signature) {
		s.quality.VerificationFailed()
		s.logger.Warn("payment signature verification failed",
			"order_id", cmd.OrderID,
			"payment_id", cmd.PaymentID,
			"booking_id", cmd.BookingID,
		)
		return &Reconciliation{Outcome: OutcomeRejected}, nil
	}

	bookingID, err := s.lookup.normalize(cmd.BookingID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindPaymentByGatewayPaymentID(ctx, cmd.PaymentID)
	switch {
	case err == nil:
		if strings.TrimSpace(existing.BookingID) != bookingID {
			s.logger.Warn("gateway payment already recorded for another booking",
				"payment_id", cmd.PaymentID,
				"booking_id", bookingID,
				"recorded_booking_id", existing.BookingID,
			)
			return nil, domain.NewDuplicateGatewayPaymentError(cmd.PaymentID)
		}
		return s.alreadySettled(ctx, existing, bookingID), nil
	case !domain.IsErrorCode(err, domain.ErrCodePaymentNotFound):
		return nil, s.persistenceFailure(err, "find payment by gateway payment id", "payment_id", cmd.PaymentID)
	}

	booking, err := s.resolveBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	minor, err := domain.ParseMinorUnits(cmd.Amount)
	if err != nil {
		return nil, err
	}
	if minor <= 0 {
		return nil, domain.NewInvalidAmountError(cmd.Amount, fmt.Errorf("amount must be positive"))
	}
	amount := domain.MinorToMajor(minor, s.minorUnitFactor)
	now := s.now()

	var (
		payment *domain.Payment
		outcome Outcome
	)
	current, err := s.lookup.payment(ctx, s.repo, bookingID)
	switch {
	case err == nil && current.IsCompleted():
		return &Reconciliation{Outcome: OutcomeAlreadyExists, Payment: current, Booking: booking}, nil
	case err == nil:
		if err := current.Complete(amount, cmd.OrderID, cmd.PaymentID, now); err != nil {
			return nil, err
		}
		payment, outcome = current, OutcomeUpdated
	case domain.IsErrorCode(err, domain.ErrCodePaymentNotFound):
		payment, outcome = domain.NewOnlinePayment(booking, amount, cmd.OrderID, cmd.PaymentID, now), OutcomeCreated
	default:
		return nil, s.persistenceFailure(err, "find payment by booking id", "booking_id", bookingID)
	}

	confirmed, err := s.settle(ctx, payment, booking, now)
	if err != nil {
		return s.handleSettleError(ctx, err, bookingID, cmd.PaymentID)
	}

	s.logger.Info("online payment reconciled",
		"outcome", outcome,
		"booking_id", bookingID,
		"payment_id", payment.ID,
		"gateway_order_id", cmd.OrderID,
		"gateway_payment_id", cmd.PaymentID,
		"amount", payment.Amount.StringFixed(2),
	)
	return &Reconciliation{Outcome: outcome, Payment: payment, Booking: confirmed}, nil
}

// ReconcileCODPayment records a cash-on-delivery payment and confirms the
// booking straight away; the money is collected at handover.
func (s *ReconcileService) ReconcileCODPayment(ctx context.Context, cmd CODPaymentCommand) (*Reconciliation, error) {
	if cmd.BookingID == "" {
		return nil, domain.NewMissingFieldError("bookingId")
	}
	bookingID, err := s.lookup.normalize(cmd.BookingID)
	if err != nil {
		return nil, err
	}

	booking, err := s.resolveBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(cmd.Amount) == "" {
		return nil, domain.NewMissingFieldError("amount")
	}
	amount, err := domain.ParseMajorUnits(cmd.Amount)
	if err != nil {
		return nil, err
	}

	current, err := s.lookup.payment(ctx, s.repo, bookingID)
	switch {
	case err == nil:
		return &Reconciliation{Outcome: OutcomeAlreadyExists, Payment: current, Booking: booking}, nil
	case !domain.IsErrorCode(err, domain.ErrCodePaymentNotFound):
		return nil, s.persistenceFailure(err, "find payment by booking id", "booking_id", bookingID)
	}

	now := s.now()
	payment := domain.NewCODPayment(booking, amount, newTransactionRef(), syntheticOrderID(now), now)

	confirmed, err := s.settle(ctx, payment, booking, now)
	if err != nil {
		return s.handleSettleError(ctx, err, bookingID, "")
	}

	s.logger.Info("cash on delivery payment recorded",
		"booking_id", bookingID,
		"payment_id", payment.ID,
		"transaction_ref", *payment.TransactionRef,
		"amount", payment.Amount.StringFixed(2),
		"customer_name", cmd.CustomerName,
	)
	return &Reconciliation{Outcome: OutcomeCreated, Payment: payment, Booking: confirmed}, nil
}

// settle writes the payment and confirms the booking in one transaction, so a
// failed booking write also discards the payment write.
func (s *ReconcileService) settle(ctx context.Context, payment *domain.Payment, booking *domain.Booking, now time.Time) (*domain.Booking, error) {
	var confirmed *domain.Booking
	err := s.repo.WithTx(ctx, func(tx ports.Repository) error {
		if err := tx.SavePayment(ctx, payment); err != nil {
			return err
		}

		b := *booking
		changed, err := b.Confirm(now)
		if err != nil {
			return err
		}
		if changed {
			if err := tx.SaveBooking(ctx, &b); err != nil {
				return fmt.Errorf("confirm booking %s: %w", b.BookingID, err)
			}
		}
		confirmed = &b
		return nil
	})
	return confirmed, err
}

// handleSettleError resolves a lost insert race by returning the winner's row.
func (s *ReconcileService) handleSettleError(ctx context.Context, err error, bookingID, gatewayPaymentID string) (*Reconciliation, error) {
	switch {
	case domain.IsErrorCode(err, domain.ErrCodeInvalidTransition):
		return nil, err
	case !domain.IsErrorCode(err, domain.ErrCodeStorageConflict):
		return nil, s.persistenceFailure(err, "settle payment", "booking_id", bookingID)
	}

	winner, lookupErr := s.lookup.payment(ctx, s.repo, bookingID)
	if lookupErr == nil {
		s.quality.StorageConflictRecovered()
		s.logger.Info("concurrent reconciliation resolved to stored payment",
			"booking_id", bookingID,
			"payment_id", winner.ID,
			"conflict", err,
		)
		return s.alreadySettled(ctx, winner, bookingID), nil
	}

	if gatewayPaymentID != "" {
		if _, gwErr := s.repo.FindPaymentByGatewayPaymentID(ctx, gatewayPaymentID); gwErr == nil {
			s.quality.StorageConflictRecovered()
			return nil, domain.NewDuplicateGatewayPaymentError(gatewayPaymentID)
		}
	}
	return nil, s.persistenceFailure(err, "recover from storage conflict", "booking_id", bookingID)
}

func (s *ReconcileService) alreadySettled(ctx context.Context, payment *domain.Payment, bookingID string) *Reconciliation {
	result := &Reconciliation{Outcome: OutcomeAlreadyExists, Payment: payment}
	if booking, err := s.lookup.booking(ctx, s.repo, bookingID); err == nil {
		result.Booking = booking
	}
	return result
}

func (s *ReconcileService) resolveBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	booking, err := s.lookup.booking(ctx, s.repo, bookingID)
	if err != nil {
		if domain.IsErrorCode(err, domain.ErrCodeBookingNotFound) {
			return nil, err
		}
		return nil, s.persistenceFailure(err, "find booking", "booking_id", bookingID)
	}
	return booking, nil
}

func (s *ReconcileService) persistenceFailure(err error, op string, attrs ...any) error {
	s.logger.Error("payment storage operation failed", append([]any{"op", op, "error", err}, attrs...)...)
	return domain.NewPersistenceError(err)
}

// newTransactionRef returns COD_ followed by 12 uppercase hex characters.
func newTransactionRef() string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "COD_" + strings.ToUpper(token[:12])
}

func syntheticOrderID(now time.Time) string {
	return fmt.Sprintf("COD_ORDER_%d", now.UnixMilli())
}
