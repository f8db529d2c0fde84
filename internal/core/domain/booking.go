package domain

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingCompleted BookingStatus = "COMPLETED"
)

// Booking is owned by the rental side of the system. Payments only read it
// and move it from PENDING to CONFIRMED.
type Booking struct {
	ID            uuid.UUID
	BookingID     string
	CustomerID    string
	CustomerName  string
	CustomerEmail string
	Status        BookingStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Confirm moves a PENDING booking to CONFIRMED. Confirming a booking that is
// already CONFIRMED is a no-op; the returned bool reports whether anything changed.
func (b *Booking) Confirm(now time.Time) (bool, error) {
	switch b.Status {
	case BookingConfirmed:
		return false, nil
	case BookingPending:
		b.Status = BookingConfirmed
		b.UpdatedAt = now
		return true, nil
	}
	return false, NewInvalidTransitionError("booking", string(b.Status), string(BookingConfirmed))
}

func (b *Booking) IsConfirmed() bool {
	return b.Status == BookingConfirmed
}
