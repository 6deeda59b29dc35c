package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/linemk/levelup-shop/internal/domain/models"
	"github.com/linemk/levelup-shop/internal/lib/logger"
	"golang.org/x/sync/singleflight"
)

var (
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	ErrProductNotFound    = errors.New("product not found")
)

// Client загружает список товаров с удалённого API и кэширует его на ttl
type Client struct {
	log        *slog.Logger
	httpClient *http.Client
	url        string
	ttl        time.Duration

	mu        sync.RWMutex
	products  []*models.Product
	byID      map[int]*models.Product
	expiresAt time.Time

	group singleflight.Group
	now   func() time.Time
}

func NewClient(log *slog.Logger, url string, timeout, ttl time.Duration) *Client {
	return &Client{
		log:        log,
		httpClient: &http.Client{Timeout: timeout},
		url:        url,
		ttl:        ttl,
		now:        time.Now,
	}
}

// Products возвращает весь каталог
func (c *Client) Products(ctx context.Context) ([]*models.Product, error) {
	if products, ok := c.cached(); ok {
		return products, nil
	}

	// параллельные промахи кэша схлопываются в один запрос.
	// Запрос не привязан к отмене первого вызвавшего, его ограничивает таймаут httpClient.
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan("products", func() (interface{}, error) {
		if _, ok := c.cached(); ok {
			return nil, nil
		}
		products, err := c.fetch(fetchCtx)
		if err != nil {
			return nil, err
		}
		c.store(products)
		return nil, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.products, nil
}

// Product ищет товар по идентификатору
func (c *Client) Product(ctx context.Context, id int) (*models.Product, error) {
	if _, err := c.Products(ctx); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	product, ok := c.byID[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// ProductsByID возвращает индекс каталога по идентификатору
func (c *Client) ProductsByID(ctx context.Context) (map[int]*models.Product, error) {
	if _, err := c.Products(ctx); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.byID, nil
}

func (c *Client) cached() ([]*models.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.products == nil || !c.now().Before(c.expiresAt) {
		return nil, false
	}
	return c.products, true
}

func (c *Client) store(products []*models.Product) {
	byID := make(map[int]*models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.products = products
	c.byID = byID
	c.expiresAt = c.now().Add(c.ttl)
}

func (c *Client) fetch(ctx context.Context) ([]*models.Product, error) {
	const op = "catalog.fetch"
	log := c.log.With(slog.String("op", op))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("failed to fetch products", logger.Err(err))
		return nil, fmt.Errorf("%s: %w: %v", op, ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Error("unexpected catalog status", slog.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%s: %w: status %d", op, ErrCatalogUnavailable, resp.StatusCode)
	}

	var products []*models.Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		log.Error("failed to decode products", logger.Err(err))
		return nil, fmt.Errorf("%s: %w: %v", op, ErrCatalogUnavailable, err)
	}
	if products == nil {
		products = []*models.Product{}
	}

	log.Debug("catalog loaded", slog.Int("count", len(products)))
	return products, nil
}
