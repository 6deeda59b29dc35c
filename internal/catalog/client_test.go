package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/linemk/levelup-shop/internal/lib/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productsJSON = `[
	{"id": 1, "name": "Catan", "price": 29990, "description": "Juego de mesa", "imageUrl": "https://img/1.png", "rating": 4.5, "reviews": ["Genial"]},
	{"id": 2, "name": "Mouse Gamer", "price": 49990.5, "description": "RGB", "imageUrl": "https://img/2.png", "rating": 4.0, "reviews": []}
]`

func newServer(t *testing.T, hits *int32, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestProducts_FetchAndCache(t *testing.T) {
	var hits int32
	srv := newServer(t, &hits, http.StatusOK, productsJSON)
	c := NewClient(logger.Discard(), srv.URL, time.Second, time.Minute)

	products, err := c.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Catan", products[0].Name)
	assert.Equal(t, "https://img/1.png", products[0].ImageURL)

	_, err = c.Products(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestProducts_CacheExpires(t *testing.T) {
	var hits int32
	srv := newServer(t, &hits, http.StatusOK, productsJSON)
	c := NewClient(logger.Discard(), srv.URL, time.Second, time.Minute)

	now := time.Now()
	c.now = func() time.Time { return now }

	_, err := c.Products(context.Background())
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = c.Products(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestProducts_ConcurrentMissesCollapse(t *testing.T) {
	var hits int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		<-release
		_, _ = w.Write([]byte(productsJSON))
	}))
	defer srv.Close()

	c := NewClient(logger.Discard(), srv.URL, 5*time.Second, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Products(context.Background())
			assert.NoError(t, err)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestProducts_CancelledCallerDoesNotFailOthers(t *testing.T) {
	var hits int32
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		started <- struct{}{}
		<-release
		_, _ = w.Write([]byte(productsJSON))
	}))
	defer srv.Close()

	c := NewClient(logger.Discard(), srv.URL, 5*time.Second, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := c.Products(ctx)
		first <- err
	}()
	<-started

	second := make(chan error, 1)
	go func() {
		_, err := c.Products(context.Background())
		second <- err
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-first, context.Canceled)

	close(release)
	require.NoError(t, <-second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	products, ok := c.cached()
	require.True(t, ok)
	assert.Len(t, products, 2)
}

func TestProducts_Unavailable(t *testing.T) {
	var hits int32
	srv := newServer(t, &hits, http.StatusInternalServerError, "boom")
	c := NewClient(logger.Discard(), srv.URL, time.Second, time.Minute)

	_, err := c.Products(context.Background())
	assert.ErrorIs(t, err, ErrCatalogUnavailable)

	// ошибка не кэшируется
	_, err = c.Products(context.Background())
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestProducts_MalformedBody(t *testing.T) {
	var hits int32
	srv := newServer(t, &hits, http.StatusOK, "{not an array")
	c := NewClient(logger.Discard(), srv.URL, time.Second, time.Minute)

	_, err := c.Products(context.Background())
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
}

func TestProduct_Lookup(t *testing.T) {
	var hits int32
	srv := newServer(t, &hits, http.StatusOK, productsJSON)
	c := NewClient(logger.Discard(), srv.URL, time.Second, time.Minute)

	p, err := c.Product(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 49990.5, p.Price)

	_, err = c.Product(context.Background(), 42)
	assert.ErrorIs(t, err, ErrProductNotFound)
}
