package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"
)

type PaymentDetailsResponse struct {
	PaymentStatus    string      `json:"paymentStatus"`
	TransactionTime  time.Time   `json:"transactionTime"`
	TransactionRefID string      `json:"transactionRefId,omitempty"`
	Amount           json.Number `json:"amount"`
	PaymentMethod    string      `json:"paymentMethod"`
	BookingStatus    string      `json:"bookingStatus,omitempty"`
}

type PaymentListResponse struct {
	Count    int               `json:"count"`
	Payments []PaymentResponse `json:"payments"`
}

func (h *PaymentHandler) HandleCheckPayment(w http.ResponseWriter, r *http.Request) {
	exists, err := h.queries.ExistsForBooking(r.Context(), r.PathValue("bookingId"))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, "", map[string]bool{"exists": exists})
}

func (h *PaymentHandler) HandleGetPaymentDetails(w http.ResponseWriter, r *http.Request) {
	details, err := h.queries.GetPaymentDetails(r.Context(), r.PathValue("bookingId"))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	p := details.Payment
	respondWithJSON(w, http.StatusOK, "", PaymentDetailsResponse{
		PaymentStatus:    string(p.Status),
		TransactionTime:  p.TransactionTime,
		TransactionRefID: deref(p.TransactionRef),
		Amount:           json.Number(p.Amount.StringFixed(2)),
		PaymentMethod:    string(p.Method),
		BookingStatus:    string(details.BookingStatus),
	})
}

func (h *PaymentHandler) HandleGetByTransactionRef(w http.ResponseWriter, r *http.Request) {
	payment, err := h.queries.GetByTransactionRef(r.Context(), r.PathValue("transactionRef"))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, "", toPaymentResponse(payment))
}

func (h *PaymentHandler) HandleGetOrderStatus(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.GetOrderStatus(r.Context(), r.PathValue("orderId"))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, "", toOrderResponse(order))
}

// HandleDebugBooking lists rows stored under the exact path value, whitespace included.
func (h *PaymentHandler) HandleDebugBooking(w http.ResponseWriter, r *http.Request) {
	payments, err := h.queries.ListAllForBooking(r.Context(), r.PathValue("bookingId"))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, "", PaymentListResponse{
		Count:    len(payments),
		Payments: toPaymentResponses(payments),
	})
}

func (h *PaymentHandler) HandleListInconsistencies(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			limit = l
		}
	}

	payments, err := h.queries.ListInconsistencies(r.Context(), limit)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, "", PaymentListResponse{
		Count:    len(payments),
		Payments: toPaymentResponses(payments),
	})
}
