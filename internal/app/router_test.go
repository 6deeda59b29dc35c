package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/linemk/levelup-shop/internal/config"
	"github.com/linemk/levelup-shop/internal/lib/logger"
	"github.com/linemk/levelup-shop/internal/service"
	"github.com/linemk/levelup-shop/internal/storage/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogJSON = `[
	{"id": 1, "name": "Producto A", "price": 1000, "description": "", "imageUrl": "", "rating": 4.5, "reviews": []},
	{"id": 2, "name": "Producto B", "price": 500, "description": "", "imageUrl": "", "rating": 4.0, "reviews": []}
]`

func newTestServer(t *testing.T) (*httptest.Server, sqlmock.Sqlmock) {
	t.Helper()

	catalogSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(catalogJSON))
	}))
	t.Cleanup(catalogSrv.Close)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := &config.Config{
		Env:      "local",
		Catalog:  config.CatalogConfig{URL: catalogSrv.URL, Timeout: time.Second, CacheTTL: time.Minute},
		Pricing:  config.PricingConfig{InstitutionalDomain: "@duocuc.cl", AutomaticRate: 0.2, CouponPrefix: "LEVELUP"},
		Checkout: config.CheckoutConfig{ProcessingDelay: 0},
		JWT:      config.JWTConfig{Secret: "test-secret", TokenTTL: 60},
	}
	a := &App{
		Config:    cfg,
		Logger:    logger.Discard(),
		DB:        db,
		KV:        kv.NewMemoryStore(),
		Publisher: service.NopOrderPublisher{},
	}

	srv := httptest.NewServer(NewRouter(a.Logger, cfg.JWT.Secret, nil, a.Services()))
	t.Cleanup(srv.Close)
	return srv, mock
}

func do(t *testing.T, method, url, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func TestShopFlow(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := do(t, http.MethodPost, srv.URL+"/api/auth/register", "", map[string]string{
		"name":      "Alumno",
		"email":     "alumno@duocuc.cl",
		"password":  "secret1",
		"phone":     "+56911111111",
		"address":   "Av. Siempre Viva 742",
		"birthDate": "01012000",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	resp, _ = do(t, http.MethodPost, srv.URL+"/api/cart/items", token, map[string]int{"productId": 1, "quantity": 2})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, body = do(t, http.MethodPost, srv.URL+"/api/cart/items", token, map[string]int{"productId": 2})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	quote := body["quote"].(map[string]interface{})
	assert.Equal(t, float64(2500), quote["subtotal"])
	assert.Equal(t, float64(500), quote["automaticDiscount"])
	assert.Equal(t, float64(2000), quote["total"])

	resp, body = do(t, http.MethodPost, srv.URL+"/api/cart/coupon", token, map[string]string{"code": "LEVELUP9000"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["applied"])

	resp, body = do(t, http.MethodPost, srv.URL+"/api/checkout", token, map[string]string{
		"holderName": "Alumno",
		"cardNumber": "4111111111111111",
		"expiry":     "1299",
		"cvc":        "123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "success", body["state"])
	order := body["order"].(map[string]interface{})
	assert.Equal(t, float64(0), order["totalAmount"])

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/orders", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	ordersResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer ordersResp.Body.Close()
	var orders []map[string]interface{}
	require.NoError(t, json.NewDecoder(ordersResp.Body).Decode(&orders))
	assert.Len(t, orders, 1)

	resp, body = do(t, http.MethodGet, srv.URL+"/api/cart", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), body["itemCount"])
}

func TestDefaultUserRedeemsPoints(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := do(t, http.MethodPost, srv.URL+"/api/auth/login", "", map[string]string{
		"email":    "usuario@ejemplo.com",
		"password": "123456",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := body["token"].(string)

	resp, body = do(t, http.MethodPost, srv.URL+"/api/profile/redeem", token, map[string]int{"points": 1500})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "LEVELUP1500", body["couponCode"])
	assert.Equal(t, float64(3500), body["remainingPoints"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, path := range []string{"/api/cart", "/api/orders", "/api/profile"} {
		resp, _ := do(t, http.MethodGet, srv.URL+path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
}

func TestEventsFromDatabase(t *testing.T) {
	srv, mock := newTestServer(t)

	mock.ExpectQuery("SELECT id, name, latitude, longitude, points FROM game_events").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "latitude", "longitude", "points"}).
			AddRow(int64(1), "Torneo Valorant Santiago", -33.4489, -70.6693, 500))

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var events []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&events))
	require.Len(t, events, 1)
	assert.Equal(t, "Torneo Valorant Santiago", events[0]["name"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{Host: "db", Port: 5432, User: "shop", Password: "pw", Name: "levelup"})
	assert.Equal(t, "postgres://shop:pw@db:5432/levelup?sslmode=disable", dsn)
}
