package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/DanielPopoola/rental-payment-gateway/internal/core/domain"
	"github.com/DanielPopoola/rental-payment-gateway/internal/core/service"
	"github.com/go-playground/validator"
)

type OrderService interface {
	CreateOrder(ctx context.Context, cmd service.CreateOrderCommand) (*domain.OrderDescriptor, error)
	GetOrderStatus(ctx context.Context, orderID string) (*domain.OrderDescriptor, error)
}

type ReconcileService interface {
	ReconcileOnlinePayment(ctx context.Context, cmd service.OnlinePaymentCommand) (*service.Reconciliation, error)
	ReconcileCODPayment(ctx context.Context, cmd service.CODPaymentCommand) (*service.Reconciliation, error)
}

type QueryService interface {
	ExistsForBooking(ctx context.Context, bookingID string) (bool, error)
	GetPaymentDetails(ctx context.Context, bookingID string) (*service.PaymentDetails, error)
	GetByTransactionRef(ctx context.Context, ref string) (*domain.Payment, error)
	ListAllForBooking(ctx context.Context, rawBookingID string) ([]*domain.Payment, error)
	ListInconsistencies(ctx context.Context, limit int) ([]*domain.Payment, error)
}

type PaymentHandler struct {
	orders    OrderService
	reconcile ReconcileService
	queries   QueryService
	validate  *validator.Validate
	logger    *slog.Logger
}

func NewPaymentHandler(
	orders OrderService,
	reconcile ReconcileService,
	queries QueryService,
	logger *slog.Logger,
) *PaymentHandler {
	return &PaymentHandler{
		orders:    orders,
		reconcile: reconcile,
		queries:   queries,
		validate:  validator.New(),
		logger:    logger,
	}
}

func (h *PaymentHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/payment/create-order", h.HandleCreateOrder)
	mux.HandleFunc("POST /api/payment/verify-payment", h.HandleVerifyPayment)
	mux.HandleFunc("POST /api/payment/cod-confirm", h.HandleCODConfirm)

	mux.HandleFunc("GET /api/payment/check/{bookingId}", h.HandleCheckPayment)
	mux.HandleFunc("GET /api/payment/details/{bookingId}", h.HandleGetPaymentDetails)
	mux.HandleFunc("GET /api/payment/transaction/{transactionRef}", h.HandleGetByTransactionRef)
	mux.HandleFunc("GET /api/payment/order/{orderId}", h.HandleGetOrderStatus)
	mux.HandleFunc("GET /api/payment/debug/{bookingId}", h.HandleDebugBooking)
	mux.HandleFunc("GET /api/payment/inconsistencies", h.HandleListInconsistencies)
}
