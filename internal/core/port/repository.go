package port

import (
	"context"

	"github.com/equinox-market/shopbot/internal/core/domain"
)

type Repository interface {
	// Order
	CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
	ReadOrder(ctx context.Context, orderID int64) (*domain.Order, error)
	ListOrders(ctx context.Context, status *domain.OrderStatus, limit uint64) ([]*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status domain.OrderStatus) (bool, error)
	UpdatePaymentStatus(ctx context.Context, orderID int64, status domain.PaymentStatus) error

	// Aggregates
	Stats(ctx context.Context) (*domain.StoreStats, error)
}
