package domain

import "time"

// OrderRequest is what the gateway needs to open an order.
type OrderRequest struct {
	AmountMinor string
	Currency    string
	Receipt     string
	Notes       map[string]string
}

// OrderDescriptor is the gateway's view of an order. The gateway is the system
// of record for it; it is never persisted locally.
type OrderDescriptor struct {
	ID         string
	Entity     string
	Amount     int64
	AmountPaid int64
	AmountDue  int64
	Currency   string
	Receipt    string
	Status     string
	Attempts   int
	CreatedAt  time.Time
	Notes      map[string]string
}
