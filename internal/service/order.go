package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/linemk/levelup-shop/internal/domain/models"
	"github.com/linemk/levelup-shop/internal/lib/logger"
	"github.com/linemk/levelup-shop/internal/storage"
)

type OrderService interface {
	// ListOrders возвращает историю заказов, новые первыми
	ListOrders(ctx context.Context, userID string) ([]*models.Order, error)
}

type orderService struct {
	log    *slog.Logger
	orders storage.OrderStorage
}

func NewOrderService(log *slog.Logger, orders storage.OrderStorage) OrderService {
	return &orderService{log: log, orders: orders}
}

func (s *orderService) ListOrders(ctx context.Context, userID string) ([]*models.Order, error) {
	const op = "service.OrderService.ListOrders"

	orders, err := s.orders.GetOrdersByUserID(ctx, userID)
	if err != nil {
		s.log.Error("failed to get orders", slog.String("op", op), logger.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].Timestamp.After(orders[j].Timestamp)
	})
	return orders, nil
}
