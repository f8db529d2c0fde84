package service

import "github.com/DanielPopoola/rental-payment-gateway/internal/core/domain"

// Outcome tags the result of a reconciliation. Expected results, including a
// failed signature check and a repeated request, are outcomes rather than errors.
type Outcome string

const (
	// OutcomeCreated means a new payment row was written and the booking confirmed.
	OutcomeCreated Outcome = "CREATED"
	// OutcomeUpdated means an existing PENDING payment was completed.
	OutcomeUpdated Outcome = "UPDATED"
	// OutcomeAlreadyExists means the booking was already settled; Payment is the stored row.
	OutcomeAlreadyExists Outcome = "ALREADY_EXISTS"
	// OutcomeRejected means the gateway signature did not verify. Nothing was written.
	OutcomeRejected Outcome = "REJECTED"
)

type Reconciliation struct {
	Outcome Outcome
	Payment *domain.Payment
	Booking *domain.Booking
}

func (r *Reconciliation) Rejected() bool {
	return r.Outcome == OutcomeRejected
}

// TransactionRef returns the reference handed to the customer, if any.
func (r *Reconciliation) TransactionRef() string {
	if r.Payment == nil || r.Payment.TransactionRef == nil {
		return ""
	}
	return *r.Payment.TransactionRef
}
