package ports

import (
	"context"

	"github.com/DanielPopoola/rental-payment-gateway/internal/core/domain"
)

// GatewayPort defines the behavior of the external payment gateway.
type GatewayPort interface {
	CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.OrderDescriptor, error)
	FetchOrder(ctx context.Context, orderID string) (*domain.OrderDescriptor, error)
	// VerifySignature never fails; a signature that cannot be checked is reported as invalid.
	VerifySignature(ctx context.Context, orderID, paymentID, signature string) bool
}
