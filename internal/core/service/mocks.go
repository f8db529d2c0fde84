package service

import (
	"bytes"
	"context"
	"maps"
	"sort"
	"strings"
	"sync"

	"github.com/DanielPopoola/rental-payment-gateway/internal/core/domain"
	"github.com/DanielPopoola/rental-payment-gateway/internal/core/ports"
	"github.com/google/uuid"
)

// MockRepository is an in-memory ports.Repository. It enforces the same
// unique keys as the SQL schema and rolls back failed transactions.
type MockRepository struct {
	mu       sync.RWMutex
	txMu     sync.Mutex
	payments map[uuid.UUID]domain.Payment
	bookings map[uuid.UUID]domain.Booking

	bookingSaves int

	SavePaymentFn                         func(ctx context.Context, payment *domain.Payment) error
	SaveBookingFn                         func(ctx context.Context, booking *domain.Booking) error
	FindPaymentByBookingIDFn              func(ctx context.Context, bookingID string) (*domain.Payment, error)
	FindCompletedWithUnconfirmedBookingFn func(ctx context.Context, after *domain.PaymentCursor, limit int) ([]*domain.Payment, error)
	WithTxFn                              func(ctx context.Context, fn func(ports.Repository) error) error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		payments: make(map[uuid.UUID]domain.Payment),
		bookings: make(map[uuid.UUID]domain.Booking),
	}
}

// AddBooking seeds a booking without counting it as a save.
func (m *MockRepository) AddBooking(b *domain.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[b.ID] = *b
}

// AddPayment seeds a payment without constraint checks, as legacy data would be.
func (m *MockRepository) AddPayment(p *domain.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[p.ID] = *p
}

func (m *MockRepository) PaymentCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.payments)
}

func (m *MockRepository) BookingSaves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bookingSaves
}

func (m *MockRepository) SavePayment(ctx context.Context, p *domain.Payment) error {
	if m.SavePaymentFn != nil {
		return m.SavePaymentFn(ctx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, other := range m.payments {
		if id == p.ID {
			continue
		}
		switch {
		case strings.TrimSpace(other.BookingID) == strings.TrimSpace(p.BookingID):
			return domain.NewStorageConflictError("payments_booking_id_key", nil)
		case sameRef(other.GatewayPaymentID, p.GatewayPaymentID):
			return domain.NewStorageConflictError("payments_gateway_payment_id_key", nil)
		case sameRef(other.TransactionRef, p.TransactionRef):
			return domain.NewStorageConflictError("payments_transaction_ref_key", nil)
		}
	}
	m.payments[p.ID] = *p
	return nil
}

func (m *MockRepository) FindPaymentByBookingID(ctx context.Context, bookingID string) (*domain.Payment, error) {
	if m.FindPaymentByBookingIDFn != nil {
		return m.FindPaymentByBookingIDFn(ctx, bookingID)
	}
	return m.findPayment(bookingID, func(p domain.Payment) bool { return p.BookingID == bookingID })
}

func (m *MockRepository) FindPaymentByBookingIDTolerant(ctx context.Context, bookingID string) (*domain.Payment, error) {
	want := strings.TrimSpace(bookingID)
	return m.findPayment(bookingID, func(p domain.Payment) bool { return strings.TrimSpace(p.BookingID) == want })
}

func (m *MockRepository) PaymentExistsForBooking(ctx context.Context, bookingID string) (bool, error) {
	_, err := m.FindPaymentByBookingIDTolerant(ctx, bookingID)
	if err != nil {
		if domain.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (m *MockRepository) FindPaymentsByRawBookingID(ctx context.Context, bookingID string) ([]*domain.Payment, error) {
	return m.filterPayments(func(p domain.Payment) bool { return p.BookingID == bookingID }), nil
}

func (m *MockRepository) FindPaymentByGatewayPaymentID(ctx context.Context, gatewayPaymentID string) (*domain.Payment, error) {
	return m.findPayment(gatewayPaymentID, func(p domain.Payment) bool { return p.HasGatewayPayment(gatewayPaymentID) })
}

func (m *MockRepository) FindPaymentByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*domain.Payment, error) {
	return m.findPayment(gatewayOrderID, func(p domain.Payment) bool {
		return p.GatewayOrderID != nil && *p.GatewayOrderID == gatewayOrderID
	})
}

func (m *MockRepository) FindPaymentByTransactionRef(ctx context.Context, ref string) (*domain.Payment, error) {
	return m.findPayment(ref, func(p domain.Payment) bool {
		return p.TransactionRef != nil && *p.TransactionRef == ref
	})
}

func (m *MockRepository) FindCompletedWithUnconfirmedBooking(ctx context.Context, after *domain.PaymentCursor, limit int) ([]*domain.Payment, error) {
	if m.FindCompletedWithUnconfirmedBookingFn != nil {
		return m.FindCompletedWithUnconfirmedBookingFn(ctx, after, limit)
	}
	m.mu.RLock()
	pending := make(map[string]bool)
	for _, b := range m.bookings {
		if b.Status == domain.BookingPending {
			pending[strings.TrimSpace(b.BookingID)] = true
		}
	}
	m.mu.RUnlock()

	result := m.filterPayments(func(p domain.Payment) bool {
		return p.IsCompleted() && pending[strings.TrimSpace(p.BookingID)] && (after == nil || cursorLess(after, p))
	})
	sort.Slice(result, func(i, j int) bool {
		return cursorLess(&domain.PaymentCursor{TransactionTime: result[i].TransactionTime, ID: result[i].ID}, *result[j])
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *MockRepository) SaveBooking(ctx context.Context, b *domain.Booking) error {
	if m.SaveBookingFn != nil {
		return m.SaveBookingFn(ctx, b)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[b.ID] = *b
	m.bookingSaves++
	return nil
}

func (m *MockRepository) FindBookingByBookingID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	return m.findBooking(bookingID, func(b domain.Booking) bool { return b.BookingID == bookingID })
}

func (m *MockRepository) FindBookingByBookingIDTolerant(ctx context.Context, bookingID string) (*domain.Booking, error) {
	want := strings.TrimSpace(bookingID)
	return m.findBooking(bookingID, func(b domain.Booking) bool { return strings.TrimSpace(b.BookingID) == want })
}

// WithTx runs transactions one at a time and restores the previous state when fn fails.
func (m *MockRepository) WithTx(ctx context.Context, fn func(ports.Repository) error) error {
	if m.WithTxFn != nil {
		return m.WithTxFn(ctx, fn)
	}
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.RLock()
	payments, bookings, saves := maps.Clone(m.payments), maps.Clone(m.bookings), m.bookingSaves
	m.mu.RUnlock()

	if err := fn(m); err != nil {
		m.mu.Lock()
		m.payments, m.bookings, m.bookingSaves = payments, bookings, saves
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *MockRepository) findPayment(key string, match func(domain.Payment) bool) (*domain.Payment, error) {
	found := m.filterPayments(match)
	if len(found) == 0 {
		return nil, domain.NewPaymentNotFoundError(key)
	}
	return found[0], nil
}

// cursorLess reports whether c sorts strictly before p in (TransactionTime, ID) order.
func cursorLess(c *domain.PaymentCursor, p domain.Payment) bool {
	if !c.TransactionTime.Equal(p.TransactionTime) {
		return c.TransactionTime.Before(p.TransactionTime)
	}
	return bytes.Compare(c.ID[:], p.ID[:]) < 0
}

func (m *MockRepository) filterPayments(match func(domain.Payment) bool) []*domain.Payment {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*domain.Payment
	for _, p := range m.payments {
		if match(p) {
			cp := p
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result
}

func (m *MockRepository) findBooking(key string, match func(domain.Booking) bool) (*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, b := range m.bookings {
		if match(b) {
			cp := b
			return &cp, nil
		}
	}
	return nil, domain.NewBookingNotFoundError(key)
}

func sameRef(a, b *string) bool {
	return a != nil && b != nil && *a == *b
}
