package service

import (
	"context"
	"errors"

	"github.com/linemk/levelup-shop/internal/domain/models"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnderage           = errors.New("user must be at least 18 years old")
	ErrEmptyCart          = errors.New("cart is empty")
)

// Catalog: источник товаров для корзины и оформления заказа
type Catalog interface {
	Products(ctx context.Context) ([]*models.Product, error)
	Product(ctx context.Context, id int) (*models.Product, error)
	ProductsByID(ctx context.Context) (map[int]*models.Product, error)
}

// OrderPublisher уведомляет внешние системы о новых заказах
type OrderPublisher interface {
	PublishOrderPlaced(ctx context.Context, order *models.Order) error
}

// NopOrderPublisher используется, когда брокер отключён
type NopOrderPublisher struct{}

func (NopOrderPublisher) PublishOrderPlaced(context.Context, *models.Order) error { return nil }
