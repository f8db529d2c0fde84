package service_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DanielPopoola/rental-payment-gateway/internal/core/domain"
	"github.com/DanielPopoola/rental-payment-gateway/internal/core/ports/mocks"
	"github.com/DanielPopoola/rental-payment-gateway/internal/core/service"
	"github.com/DanielPopoola/rental-payment-gateway/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestOrderService_CreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("opens gateway order with booking notes", func(t *testing.T) {
		gateway := mocks.NewMockGatewayPort(t)
		svc := service.NewOrderService(gateway, metrics.New(), "INR", discardLogger())

		gateway.EXPECT().
			CreateOrder(mock.Anything, mock.MatchedBy(func(req domain.OrderRequest) bool {
				return req.AmountMinor == "150000" &&
					req.Currency == "INR" &&
					regexp.MustCompile(`^order_\d+$`).MatchString(req.Receipt) &&
					req.Notes["bookingId"] == "BK-1" &&
					req.Notes["customerName"] == "Asha" &&
					req.Notes["customerPhone"] == ""
			})).
			Return(&domain.OrderDescriptor{
				ID:       "order_abc",
				Entity:   "order",
				Amount:   150000,
				Currency: "INR",
				Status:   "created",
			}, nil).Once()

		order, err := svc.CreateOrder(ctx, service.CreateOrderCommand{
			BookingID:    " BK-1 ",
			Amount:       "150000",
			CustomerName: "Asha",
		})

		require.NoError(t, err)
		assert.Equal(t, "order_abc", order.ID)
		assert.Equal(t, int64(150000), order.Amount)
	})

	t.Run("keeps caller receipt and currency", func(t *testing.T) {
		gateway := mocks.NewMockGatewayPort(t)
		svc := service.NewOrderService(gateway, nil, "INR", discardLogger())

		gateway.EXPECT().
			CreateOrder(mock.Anything, mock.MatchedBy(func(req domain.OrderRequest) bool {
				return req.Currency == "USD" && req.Receipt == "rcpt-7"
			})).
			Return(&domain.OrderDescriptor{ID: "order_x"}, nil).Once()

		_, err := svc.CreateOrder(ctx, service.CreateOrderCommand{
			BookingID: "BK-1",
			Amount:    "100",
			Currency:  "usd",
			Receipt:   "rcpt-7",
		})

		require.NoError(t, err)
	})

	t.Run("malformed amount never reaches gateway", func(t *testing.T) {
		gateway := mocks.NewMockGatewayPort(t)
		svc := service.NewOrderService(gateway, nil, "INR", discardLogger())

		for _, amount := range []string{"abc", "10.5", "0", "-100"} {
			_, err := svc.CreateOrder(ctx, service.CreateOrderCommand{BookingID: "BK-1", Amount: amount})

			assert.True(t, domain.IsErrorCode(err, domain.ErrCodeInvalidAmount), amount)
		}
		gateway.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	})

	t.Run("missing fields", func(t *testing.T) {
		gateway := mocks.NewMockGatewayPort(t)
		svc := service.NewOrderService(gateway, nil, "INR", discardLogger())

		_, err := svc.CreateOrder(ctx, service.CreateOrderCommand{Amount: "100"})
		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeMissingRequiredField))

		_, err = svc.CreateOrder(ctx, service.CreateOrderCommand{BookingID: "BK-1"})
		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeMissingRequiredField))

		_, err = svc.CreateOrder(ctx, service.CreateOrderCommand{BookingID: "  ", Amount: "100"})
		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeInvalidIdentifier))
	})

	t.Run("gateway failure is wrapped", func(t *testing.T) {
		gateway := mocks.NewMockGatewayPort(t)
		svc := service.NewOrderService(gateway, nil, "INR", discardLogger())
		cause := errors.New("connection refused")

		gateway.EXPECT().CreateOrder(mock.Anything, mock.Anything).Return(nil, cause).Once()

		_, err := svc.CreateOrder(ctx, service.CreateOrderCommand{BookingID: "BK-1", Amount: "100"})

		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeGatewayError))
		assert.ErrorIs(t, err, cause)
	})
}

func TestOrderService_GetOrderStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("returns gateway order", func(t *testing.T) {
		gateway := mocks.NewMockGatewayPort(t)
		svc := service.NewOrderService(gateway, nil, "INR", discardLogger())
		created := time.Unix(1700000000, 0).UTC()

		gateway.EXPECT().FetchOrder(mock.Anything, "order_abc").
			Return(&domain.OrderDescriptor{ID: "order_abc", Status: "paid", AmountPaid: 500, CreatedAt: created}, nil).Once()

		order, err := svc.GetOrderStatus(ctx, "order_abc")

		require.NoError(t, err)
		assert.Equal(t, "paid", order.Status)
		assert.Equal(t, int64(500), order.AmountPaid)
	})

	t.Run("requires order id", func(t *testing.T) {
		svc := service.NewOrderService(mocks.NewMockGatewayPort(t), nil, "INR", discardLogger())

		_, err := svc.GetOrderStatus(ctx, " ")

		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeMissingRequiredField))
	})

	t.Run("gateway failure is wrapped", func(t *testing.T) {
		gateway := mocks.NewMockGatewayPort(t)
		svc := service.NewOrderService(gateway, nil, "INR", discardLogger())

		gateway.EXPECT().FetchOrder(mock.Anything, "order_gone").Return(nil, errors.New("404")).Once()

		_, err := svc.GetOrderStatus(ctx, "order_gone")

		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeGatewayError))
	})
}
