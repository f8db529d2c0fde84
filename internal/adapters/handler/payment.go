package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/DanielPopoola/rental-payment-gateway/internal/core/service"
)

type CreateOrderRequest struct {
	BookingID     string `json:"bookingId"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency" validate:"omitempty,len=3,alpha"`
	Receipt       string `json:"receipt" validate:"omitempty,max=40"`
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail" validate:"omitempty,email"`
	CustomerPhone string `json:"customerPhone"`
	Description   string `json:"description"`
}

// VerifyPaymentRequest carries the fields returned by the checkout widget.
type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
	BookingID string `json:"bookingId"`
	Amount    string `json:"amount"`
}

type CODConfirmRequest struct {
	BookingID     string `json:"bookingId"`
	Amount        string `json:"amount"`
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail" validate:"omitempty,email"`
}

type ReconciliationResponse struct {
	Outcome          service.Outcome `json:"outcome"`
	PaymentID        string          `json:"paymentId,omitempty"`
	BookingID        string          `json:"bookingId,omitempty"`
	TransactionRefID string          `json:"transactionRefId,omitempty"`
	BookingStatus    string          `json:"bookingStatus,omitempty"`
}

type CODConfirmResponse struct {
	TransactionID string          `json:"transactionId"`
	Outcome       service.Outcome `json:"outcome"`
}

func (h *PaymentHandler) HandleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if !h.decode(w, r, &req) {
		return
	}

	order, err := h.orders.CreateOrder(r.Context(), service.CreateOrderCommand{
		BookingID:     req.BookingID,
		Amount:        req.Amount,
		Currency:      req.Currency,
		Receipt:       req.Receipt,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		Description:   req.Description,
	})
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, "Order created", toOrderResponse(order))
}

func (h *PaymentHandler) HandleVerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req VerifyPaymentRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.reconcile.ReconcileOnlinePayment(r.Context(), service.OnlinePaymentCommand{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
		BookingID: req.BookingID,
		Amount:    req.Amount,
	})
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	if result.Rejected() {
		WriteError(w, http.StatusBadRequest, "VERIFICATION_FAILED", "Payment verification failed")
		return
	}

	message := "Payment verified and saved successfully"
	if result.Outcome == service.OutcomeAlreadyExists {
		message = "Payment already recorded"
	}
	respondWithJSON(w, http.StatusOK, message, toReconciliationResponse(result))
}

func (h *PaymentHandler) HandleCODConfirm(w http.ResponseWriter, r *http.Request) {
	var req CODConfirmRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.reconcile.ReconcileCODPayment(r.Context(), service.CODPaymentCommand{
		BookingID:     req.BookingID,
		Amount:        req.Amount,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
	})
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, "COD order confirmed successfully", CODConfirmResponse{
		TransactionID: result.TransactionRef(),
		Outcome:       result.Outcome,
	})
}

// decode reads and validates a JSON body, writing the error response itself on failure.
func (h *PaymentHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_REQUEST", "could not read request body")
		return false
	}

	if err := json.Unmarshal(body, dst); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_REQUEST", "request body must be a JSON object")
		return false
	}

	if err := h.validate.Struct(dst); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return false
	}
	return true
}

func toReconciliationResponse(result *service.Reconciliation) ReconciliationResponse {
	resp := ReconciliationResponse{
		Outcome:          result.Outcome,
		TransactionRefID: result.TransactionRef(),
	}
	if result.Payment != nil {
		resp.PaymentID = result.Payment.ID.String()
		resp.BookingID = result.Payment.BookingID
	}
	if result.Booking != nil {
		resp.BookingStatus = string(result.Booking.Status)
	}
	return resp
}
