package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/DanielPopoola/rental-payment-gateway/internal/core/domain"
	"github.com/DanielPopoola/rental-payment-gateway/internal/core/ports"
)

type CreateOrderCommand struct {
	BookingID string
	// Amount is in gateway minor units.
	Amount        string
	Currency      string
	Receipt       string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Description   string
}

// OrderService opens gateway orders for bookings.
type OrderService struct {
	gateway  ports.GatewayPort
	lookup   *bookingLookup
	currency string
	logger   *slog.Logger
	now      func() time.Time
}

func NewOrderService(gateway ports.GatewayPort, quality ports.DataQualityRecorder, currency string, logger *slog.Logger) *OrderService {
	lookup := newBookingLookup(quality, logger)
	return &OrderService{
		gateway:  gateway,
		lookup:   lookup,
		currency: currency,
		logger:   lookup.logger,
		now:      time.Now,
	}
}

// CreateOrder validates the request and opens an order at the gateway. A
// malformed amount never reaches the gateway.
func (s *OrderService) CreateOrder(ctx context.Context, cmd CreateOrderCommand) (*domain.OrderDescriptor, error) {
	if cmd.BookingID == "" {
		return nil, domain.NewMissingFieldError("bookingId")
	}
	bookingID, err := s.lookup.normalize(cmd.BookingID)
	if err != nil {
		return nil, err
	}

	if cmd.Amount == "" {
		return nil, domain.NewMissingFieldError("amount")
	}
	minor, err := domain.ParseMinorUnits(cmd.Amount)
	if err != nil {
		return nil, err
	}
	if minor <= 0 {
		return nil, domain.NewInvalidAmountError(cmd.Amount, fmt.Errorf("amount must be positive"))
	}

	req := domain.OrderRequest{
		AmountMinor: strconv.FormatInt(minor, 10),
		Currency:    s.currency,
		Receipt:     cmd.Receipt,
		Notes:       orderNotes(bookingID, cmd),
	}
	if cmd.Currency != "" {
		req.Currency = strings.ToUpper(cmd.Currency)
	}
	if req.Receipt == "" {
		req.Receipt = fmt.Sprintf("order_%d", s.now().UnixMilli())
	}

	order, err := s.gateway.CreateOrder(ctx, req)
	if err != nil {
		if domain.IsErrorCode(err, domain.ErrCodeInvalidAmount) {
			return nil, err
		}
		s.logger.Error("gateway order creation failed",
			"booking_id", bookingID,
			"amount", req.AmountMinor,
			"currency", req.Currency,
			"receipt", req.Receipt,
			"error", err,
		)
		return nil, domain.NewGatewayError(err)
	}

	s.logger.Info("gateway order created",
		"booking_id", bookingID,
		"order_id", order.ID,
		"amount", order.Amount,
		"currency", order.Currency,
	)
	return order, nil
}

// GetOrderStatus asks the gateway for the current state of an order.
func (s *OrderService) GetOrderStatus(ctx context.Context, orderID string) (*domain.OrderDescriptor, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, domain.NewMissingFieldError("orderId")
	}

	order, err := s.gateway.FetchOrder(ctx, orderID)
	if err != nil {
		s.logger.Error("gateway order lookup failed", "order_id", orderID, "error", err)
		return nil, domain.NewGatewayError(err)
	}
	return order, nil
}

func orderNotes(bookingID string, cmd CreateOrderCommand) map[string]string {
	notes := map[string]string{"bookingId": bookingID}
	optional := map[string]string{
		"customerName":  cmd.CustomerName,
		"customerEmail": cmd.CustomerEmail,
		"customerPhone": cmd.CustomerPhone,
		"description":   cmd.Description,
	}
	for k, v := range optional {
		if v != "" {
			notes[k] = v
		}
	}
	return notes
}
