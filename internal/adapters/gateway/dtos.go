package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DanielPopoola/rental-payment-gateway/internal/core/domain"
)

type createOrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt,omitempty"`
	Notes    map[string]string `json:"notes,omitempty"`
}

// orderResponse mirrors the gateway's order entity. Pointer fields are the
// ones that must be present for the response to be accepted.
type orderResponse struct {
	ID         *string         `json:"id"`
	Entity     *string         `json:"entity"`
	Amount     *int64          `json:"amount"`
	AmountPaid int64           `json:"amount_paid"`
	AmountDue  int64           `json:"amount_due"`
	Currency   *string         `json:"currency"`
	Receipt    *string         `json:"receipt"`
	Status     *string         `json:"status"`
	Attempts   int             `json:"attempts"`
	CreatedAt  *int64          `json:"created_at"`
	Notes      json.RawMessage `json:"notes"`
}

func (r *orderResponse) toDescriptor() (*domain.OrderDescriptor, error) {
	switch {
	case r.ID == nil || *r.ID == "":
		return nil, missingField("id")
	case r.Entity == nil:
		return nil, missingField("entity")
	case r.Amount == nil:
		return nil, missingField("amount")
	case r.Currency == nil || *r.Currency == "":
		return nil, missingField("currency")
	case r.Status == nil || *r.Status == "":
		return nil, missingField("status")
	case r.CreatedAt == nil:
		return nil, missingField("created_at")
	}

	notes, err := decodeNotes(r.Notes)
	if err != nil {
		return nil, &Error{Code: CodeInvalidResponse, Message: err.Error()}
	}

	d := &domain.OrderDescriptor{
		ID:         *r.ID,
		Entity:     *r.Entity,
		Amount:     *r.Amount,
		AmountPaid: r.AmountPaid,
		AmountDue:  r.AmountDue,
		Currency:   *r.Currency,
		Status:     *r.Status,
		Attempts:   r.Attempts,
		CreatedAt:  time.Unix(*r.CreatedAt, 0).UTC(),
		Notes:      notes,
	}
	if r.Receipt != nil {
		d.Receipt = *r.Receipt
	}
	return d, nil
}

// decodeNotes accepts the notes object; the gateway sends an empty array
// when an order has no notes.
func decodeNotes(raw json.RawMessage) (map[string]string, error) {
	notes := map[string]string{}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return notes, nil
	}

	var values map[string]any
	if err := json.Unmarshal(trimmed, &values); err != nil {
		return nil, fmt.Errorf("decode notes: %w", err)
	}
	for k, v := range values {
		if s, ok := v.(string); ok {
			notes[k] = s
			continue
		}
		notes[k] = fmt.Sprint(v)
	}
	return notes, nil
}

func missingField(name string) *Error {
	return &Error{
		Code:    CodeInvalidResponse,
		Message: fmt.Sprintf("order response is missing %q", name),
	}
}
