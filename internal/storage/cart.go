package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/linemk/levelup-shop/internal/domain/models"
	"github.com/linemk/levelup-shop/internal/storage/kv"
)

const cartKeyPrefix = "cart_"

type CartStorage interface {
	// GetCart возвращает корзину пользователя, пустую если её ещё нет
	GetCart(ctx context.Context, userID string) (*models.Cart, error)
	SaveCart(ctx context.Context, userID string, cart *models.Cart) error
	// UpdateCart читает корзину, применяет mutate и сохраняет её под блокировкой пользователя.
	// Ошибка mutate отменяет сохранение.
	UpdateCart(ctx context.Context, userID string, mutate func(cart *models.Cart) error) (*models.Cart, error)
	ClearCart(ctx context.Context, userID string) error
}

type cartRepository struct {
	store kv.Store
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewCartRepository(store kv.Store) CartStorage {
	return &cartRepository{store: store, locks: make(map[string]*sync.Mutex)}
}

func (r *cartRepository) lock(userID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[userID] = l
	}
	return l
}

func (r *cartRepository) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	cart := models.NewCart()
	found, err := loadJSON(ctx, r.store, cartKeyPrefix+userID, cart)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if !found || cart.Items == nil {
		return models.NewCart(), nil
	}
	for id, qty := range cart.Items {
		switch {
		case qty <= 0:
			delete(cart.Items, id)
		case qty > models.MaxItemQuantity:
			cart.Items[id] = models.MaxItemQuantity
		}
	}
	return cart, nil
}

func (r *cartRepository) SaveCart(ctx context.Context, userID string, cart *models.Cart) error {
	l := r.lock(userID)
	l.Lock()
	defer l.Unlock()

	return saveJSON(ctx, r.store, cartKeyPrefix+userID, cart)
}

func (r *cartRepository) UpdateCart(ctx context.Context, userID string, mutate func(cart *models.Cart) error) (*models.Cart, error) {
	l := r.lock(userID)
	l.Lock()
	defer l.Unlock()

	cart, err := r.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := mutate(cart); err != nil {
		return nil, err
	}
	if err := saveJSON(ctx, r.store, cartKeyPrefix+userID, cart); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	return cart, nil
}

func (r *cartRepository) ClearCart(ctx context.Context, userID string) error {
	l := r.lock(userID)
	l.Lock()
	defer l.Unlock()

	return r.store.Delete(ctx, cartKeyPrefix+userID)
}
