package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/DanielPopoola/rental-payment-gateway/internal/core/domain"
	"github.com/DanielPopoola/rental-payment-gateway/internal/core/ports"
	"github.com/google/uuid"
)

// InconsistencyScanner periodically looks for completed payments whose booking
// is still PENDING. It never repairs rows, it only logs and counts them.
type InconsistencyScanner struct {
	repo      ports.PaymentRepository
	quality   ports.DataQualityRecorder
	interval  time.Duration
	batchSize int
	logger    *slog.Logger

	mu   sync.Mutex
	seen map[uuid.UUID]struct{}
}

func NewInconsistencyScanner(
	repo ports.PaymentRepository,
	quality ports.DataQualityRecorder,
	interval time.Duration,
	batchSize int,
	logger *slog.Logger,
) *InconsistencyScanner {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &InconsistencyScanner{
		repo:      repo,
		quality:   quality,
		interval:  interval,
		batchSize: batchSize,
		logger:    logger,
		seen:      make(map[uuid.UUID]struct{}),
	}
}

func (s *InconsistencyScanner) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("starting inconsistency scanner", "interval", s.interval, "batch_size", s.batchSize)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("stopping inconsistency scanner")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce walks every inconsistent payment in batchSize pages and returns
// how many it had not reported before.
func (s *InconsistencyScanner) RunOnce(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	found, returned := 0, 0
	var cursor *domain.PaymentCursor
	for {
		payments, err := s.repo.FindCompletedWithUnconfirmedBooking(ctx, cursor, s.batchSize)
		if err != nil {
			s.logger.Error("failed to scan for unconfirmed bookings", "error", err)
			break
		}
		returned += len(payments)

		for _, p := range payments {
			if _, ok := s.seen[p.ID]; ok {
				continue
			}
			s.seen[p.ID] = struct{}{}
			found++

			s.quality.InconsistencyDetected()
			s.logger.Warn("completed payment with unconfirmed booking",
				"payment_id", p.ID,
				"booking_id", p.BookingID,
				"method", p.Method,
				"transaction_ref", deref(p.TransactionRef),
				"transaction_time", p.TransactionTime,
			)
		}

		if len(payments) < s.batchSize || ctx.Err() != nil {
			break
		}
		cursor = payments[len(payments)-1].CursorAfter()
	}

	if found > 0 {
		s.logger.Info("inconsistency scan complete", "new", found, "returned", returned)
	}
	return found
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
