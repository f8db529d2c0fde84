// Package domain holds the payment and booking entities and the rules that
// govern how a payment settles a booking.
package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus represents the current state of a payment in its lifecycle
type PaymentStatus string

const (
	StatusPending   PaymentStatus = "PENDING"
	StatusCompleted PaymentStatus = "COMPLETED"
)

// PaymentMethod records which path settled the booking.
type PaymentMethod string

const (
	MethodOnline PaymentMethod = "ONLINE"
	MethodCOD    PaymentMethod = "COD"
)

// Payment is the settlement attempt for exactly one booking.
type Payment struct {
	ID         uuid.UUID
	BookingID  string
	CustomerID string
	Amount     decimal.Decimal
	Method     PaymentMethod
	Status     PaymentStatus

	GatewayOrderID   *string
	GatewayPaymentID *string
	TransactionRef   *string

	TransactionTime time.Time
	CreatedAt       time.Time
}

// PaymentCursor is a keyset position in (TransactionTime, ID) order.
type PaymentCursor struct {
	TransactionTime time.Time
	ID              uuid.UUID
}

// CursorAfter returns the position just past p.
func (p *Payment) CursorAfter() *PaymentCursor {
	return &PaymentCursor{TransactionTime: p.TransactionTime, ID: p.ID}
}

// NewOnlinePayment builds the record for a gateway payment whose signature has
// already been verified, so it starts out COMPLETED.
func NewOnlinePayment(b *Booking, amount decimal.Decimal, orderID, paymentID string, now time.Time) *Payment {
	return &Payment{
		ID:               uuid.New(),
		BookingID:        strings.TrimSpace(b.BookingID),
		CustomerID:       b.CustomerID,
		Amount:           amount,
		Method:           MethodOnline,
		Status:           StatusCompleted,
		GatewayOrderID:   &orderID,
		GatewayPaymentID: &paymentID,
		TransactionRef:   &paymentID,
		TransactionTime:  now,
		CreatedAt:        now,
	}
}

// NewCODPayment builds a cash-on-delivery record. Money is collected later,
// so the payment stays PENDING.
func NewCODPayment(b *Booking, amount decimal.Decimal, transactionRef, syntheticOrderID string, now time.Time) *Payment {
	return &Payment{
		ID:              uuid.New(),
		BookingID:       strings.TrimSpace(b.BookingID),
		CustomerID:      b.CustomerID,
		Amount:          amount,
		Method:          MethodCOD,
		Status:          StatusPending,
		GatewayOrderID:  &syntheticOrderID,
		TransactionRef:  &transactionRef,
		TransactionTime: now,
		CreatedAt:       now,
	}
}

// Complete settles a PENDING payment with a verified gateway payment.
// A COMPLETED payment never goes back to PENDING and is never completed twice.
func (p *Payment) Complete(amount decimal.Decimal, orderID, paymentID string, now time.Time) error {
	if err := p.transition(StatusCompleted); err != nil {
		return err
	}
	p.Amount = amount
	p.Method = MethodOnline
	p.GatewayOrderID = &orderID
	p.GatewayPaymentID = &paymentID
	p.TransactionTime = now
	return nil
}

func (p *Payment) IsCompleted() bool {
	return p.Status == StatusCompleted
}

// HasGatewayPayment reports whether the payment was settled by the given gateway payment id.
func (p *Payment) HasGatewayPayment(paymentID string) bool {
	return p.GatewayPaymentID != nil && *p.GatewayPaymentID == paymentID
}

func (p *Payment) transition(target PaymentStatus) error {
	if err := p.canTransitionTo(target); err != nil {
		return err
	}
	p.Status = target
	return nil
}

func (p *Payment) canTransitionTo(target PaymentStatus) error {
	switch p.Status {
	case StatusPending:
		return p.allow(target, StatusCompleted)
	}
	return NewInvalidTransitionError("payment", string(p.Status), string(target))
}

func (p *Payment) allow(target PaymentStatus, allowed ...PaymentStatus) error {
	if slices.Contains(allowed, target) {
		return nil
	}
	return NewInvalidTransitionError("payment", string(p.Status), string(target))
}
