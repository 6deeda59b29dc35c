package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/linemk/levelup-shop/internal/domain/models"
	"github.com/linemk/levelup-shop/internal/storage/kv"
)

const ordersKeyPrefix = "orders_"

// OrderStorage описывает методы для работы с историей заказов пользователя.
type OrderStorage interface {
	// AppendOrder добавляет заказ в конец списка заказов его владельца
	AppendOrder(ctx context.Context, order *models.Order) error
	// GetOrdersByUserID возвращает заказы в порядке добавления
	GetOrdersByUserID(ctx context.Context, userID string) ([]*models.Order, error)
}

type orderRepository struct {
	store kv.Store
	mu    sync.Mutex
}

// NewOrderRepository создаёт новый репозиторий заказов.
func NewOrderRepository(store kv.Store) OrderStorage {
	return &orderRepository{store: store}
}

func (r *orderRepository) GetOrdersByUserID(ctx context.Context, userID string) ([]*models.Order, error) {
	var orders []*models.Order
	found, err := loadJSON(ctx, r.store, ordersKeyPrefix+userID, &orders)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	// битая история могла заполниться частично, такой документ не используем
	if !found || orders == nil {
		return []*models.Order{}, nil
	}
	return orders, nil
}

func (r *orderRepository) AppendOrder(ctx context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders, err := r.GetOrdersByUserID(ctx, order.UserID)
	if err != nil {
		return err
	}
	orders = append(orders, order)

	if err := saveJSON(ctx, r.store, ordersKeyPrefix+order.UserID, orders); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}
