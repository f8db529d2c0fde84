package service

import (
	"context"
	"log/slog"

	"github.com/DanielPopoola/rental-payment-gateway/internal/core/domain"
	"github.com/DanielPopoola/rental-payment-gateway/internal/core/ports"
)

// bookingLookup normalizes booking identifiers and resolves records exact
// match first, then with whitespace ignored on the stored key. Every repair
// is counted so the remaining data debt stays visible.
type bookingLookup struct {
	quality ports.DataQualityRecorder
	logger  *slog.Logger
}

func newBookingLookup(quality ports.DataQualityRecorder, logger *slog.Logger) *bookingLookup {
	if quality == nil {
		quality = noopRecorder{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &bookingLookup{quality: quality, logger: logger}
}

func (l *bookingLookup) normalize(raw string) (string, error) {
	id, trimmed, err := domain.NormalizeBookingID(raw)
	if err != nil {
		return "", err
	}
	if trimmed {
		l.quality.IdentifierNormalized()
		l.logger.Warn("booking id supplied with surrounding whitespace", "booking_id", id, "raw_length", len(raw))
	}
	return id, nil
}

func (l *bookingLookup) payment(ctx context.Context, repo ports.PaymentRepository, bookingID string) (*domain.Payment, error) {
	p, tolerant, err := resolve(ctx, bookingID, domain.ErrCodePaymentNotFound,
		repo.FindPaymentByBookingID, repo.FindPaymentByBookingIDTolerant)
	if err != nil {
		return nil, err
	}
	l.record("payment", bookingID, p.BookingID, tolerant)
	return p, nil
}

func (l *bookingLookup) booking(ctx context.Context, repo ports.BookingRepository, bookingID string) (*domain.Booking, error) {
	b, tolerant, err := resolve(ctx, bookingID, domain.ErrCodeBookingNotFound,
		repo.FindBookingByBookingID, repo.FindBookingByBookingIDTolerant)
	if err != nil {
		return nil, err
	}
	l.record("booking", bookingID, b.BookingID, tolerant)
	return b, nil
}

func (l *bookingLookup) record(kind, bookingID, storedID string, tolerant bool) {
	if !tolerant {
		l.quality.ExactMatch()
		return
	}
	l.quality.TolerantMatch()
	l.logger.Warn("record matched only after trimming stored booking id",
		"kind", kind,
		"booking_id", bookingID,
		"stored_booking_id", storedID,
	)
}

func resolve[T any](
	ctx context.Context,
	id, notFoundCode string,
	exact, tolerant func(context.Context, string) (*T, error),
) (*T, bool, error) {
	found, err := exact(ctx, id)
	if err == nil {
		return found, false, nil
	}
	if !domain.IsErrorCode(err, notFoundCode) {
		return nil, false, err
	}

	found, err = tolerant(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return found, true, nil
}

type noopRecorder struct{}

func (noopRecorder) IdentifierNormalized()     {}
func (noopRecorder) ExactMatch()               {}
func (noopRecorder) TolerantMatch()            {}
func (noopRecorder) VerificationFailed()       {}
func (noopRecorder) StorageConflictRecovered() {}
func (noopRecorder) InconsistencyDetected()    {}
