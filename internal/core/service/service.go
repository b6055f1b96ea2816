package service

import (
	"context"

	"github.com/equinox-market/shopbot/internal/core/domain"
	"github.com/equinox-market/shopbot/internal/core/port"
	"go.uber.org/zap"
)

// Service holds the order lifecycle: building orders from checkout payloads,
// reconciling payment callbacks and serving the admin commands. The order
// store is the only shared state, every read goes back to it.
type Service struct {
	repo        port.Repository
	catalog     port.CatalogLookup
	notifier    port.Notifier
	payments    port.PaymentLinker
	logger      *zap.Logger
	adminChatID int64
	currency    string
}

func NewService(repo port.Repository, catalog port.CatalogLookup, notifier port.Notifier,
	payments port.PaymentLinker, adminChatID int64, currency string, logger *zap.Logger) (*Service, error) {
	return &Service{
		repo:        repo,
		catalog:     catalog,
		notifier:    notifier,
		payments:    payments,
		logger:      logger,
		adminChatID: adminChatID,
		currency:    currency,
	}, nil
}

func (s *Service) Order(ctx context.Context, orderID int64) (*domain.Order, error) {
	order, err := s.repo.ReadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *Service) Orders(ctx context.Context, status *domain.OrderStatus, limit uint64) ([]*domain.Order, error) {
	list, err := s.repo.ListOrders(ctx, status, limit)
	if err != nil {
		s.logger.Error("list orders", zap.Error(err))
		return nil, err
	}
	return list, nil
}

func (s *Service) UpdateOrderStatus(ctx context.Context, orderID int64, status domain.OrderStatus) (bool, error) {
	changed, err := s.repo.UpdateOrderStatus(ctx, orderID, status)
	if err != nil {
		s.logger.Error("update order status", zap.Int64("order", orderID), zap.Error(err))
		return false, err
	}
	return changed, nil
}

func (s *Service) Stats(ctx context.Context) (*domain.StoreStats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		s.logger.Error("store stats", zap.Error(err))
		return nil, err
	}
	return stats, nil
}
