package port

import (
	"context"

	"github.com/equinox-market/shopbot/internal/core/domain"
)

type Service interface {
	ProcessCheckout(ctx context.Context, checkout *domain.Checkout) (*domain.Order, error)
	ApplyPayment(ctx context.Context, event *domain.PaymentEvent) error

	Order(ctx context.Context, orderID int64) (*domain.Order, error)
	Orders(ctx context.Context, status *domain.OrderStatus, limit uint64) ([]*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status domain.OrderStatus) (bool, error)
	Stats(ctx context.Context) (*domain.StoreStats, error)
}
