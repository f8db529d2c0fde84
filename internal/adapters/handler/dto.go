package handler

import (
	"encoding/json"
	"time"

	"github.com/DanielPopoola/rental-payment-gateway/internal/core/domain"
)

type PaymentResponse struct {
	ID               string      `json:"id"`
	BookingID        string      `json:"bookingId"`
	CustomerID       string      `json:"customerId,omitempty"`
	Amount           json.Number `json:"amount"`
	PaymentMethod    string      `json:"paymentMethod"`
	PaymentStatus    string      `json:"paymentStatus"`
	GatewayOrderID   string      `json:"gatewayOrderId,omitempty"`
	GatewayPaymentID string      `json:"gatewayPaymentId,omitempty"`
	TransactionRefID string      `json:"transactionRefId,omitempty"`
	TransactionTime  time.Time   `json:"transactionTime"`
	CreatedAt        time.Time   `json:"createdAt"`
}

type OrderResponse struct {
	ID         string            `json:"id"`
	Entity     string            `json:"entity"`
	Amount     int64             `json:"amount"`
	AmountPaid int64             `json:"amountPaid"`
	AmountDue  int64             `json:"amountDue"`
	Currency   string            `json:"currency"`
	Receipt    string            `json:"receipt,omitempty"`
	Status     string            `json:"status"`
	Attempts   int               `json:"attempts"`
	CreatedAt  time.Time         `json:"createdAt"`
	Notes      map[string]string `json:"notes,omitempty"`
}

func toPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:               p.ID.String(),
		BookingID:        p.BookingID,
		CustomerID:       p.CustomerID,
		Amount:           json.Number(p.Amount.StringFixed(2)),
		PaymentMethod:    string(p.Method),
		PaymentStatus:    string(p.Status),
		GatewayOrderID:   deref(p.GatewayOrderID),
		GatewayPaymentID: deref(p.GatewayPaymentID),
		TransactionRefID: deref(p.TransactionRef),
		TransactionTime:  p.TransactionTime,
		CreatedAt:        p.CreatedAt,
	}
}

func toPaymentResponses(payments []*domain.Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, toPaymentResponse(p))
	}
	return out
}

func toOrderResponse(o *domain.OrderDescriptor) OrderResponse {
	return OrderResponse{
		ID:         o.ID,
		Entity:     o.Entity,
		Amount:     o.Amount,
		AmountPaid: o.AmountPaid,
		AmountDue:  o.AmountDue,
		Currency:   o.Currency,
		Receipt:    o.Receipt,
		Status:     o.Status,
		Attempts:   o.Attempts,
		CreatedAt:  o.CreatedAt,
		Notes:      o.Notes,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
