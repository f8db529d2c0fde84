package testdata

import "github.com/DanielPopoola/rental-payment-gateway/internal/core/domain"

// SeedBooking is a booking row as the rental side would have written it.
type SeedBooking struct {
	BookingID   string
	CustomerID  string
	Status      domain.BookingStatus
	Description string
}

var (
	PendingBooking = SeedBooking{
		BookingID:   "BK-1001",
		CustomerID:  "cust-1001",
		Status:      domain.BookingPending,
		Description: "Happy path booking",
	}

	PaddedBooking = SeedBooking{
		BookingID:   "BK-1002 ",
		CustomerID:  "cust-1002",
		Status:      domain.BookingPending,
		Description: "Stored with a trailing space",
	}

	CODBooking = SeedBooking{
		BookingID:   "BK-1003",
		CustomerID:  "cust-1003",
		Status:      domain.BookingPending,
		Description: "Settled by cash on delivery",
	}

	RaceBooking = SeedBooking{
		BookingID:   "BK-1004",
		CustomerID:  "cust-1004",
		Status:      domain.BookingPending,
		Description: "Target of concurrent verifications",
	}

	CancelledBooking = SeedBooking{
		BookingID:   "BK-1005",
		CustomerID:  "cust-1005",
		Status:      domain.BookingCancelled,
		Description: "Cannot be confirmed",
	}
)

func All() []SeedBooking {
	return []SeedBooking{PendingBooking, PaddedBooking, CODBooking, RaceBooking, CancelledBooking}
}
