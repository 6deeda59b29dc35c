package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/linemk/levelup-shop/internal/config"
	"github.com/stretchr/testify/assert"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp("", "config_test_*.yaml")
	assert.NoError(t, err)
	t.Cleanup(func() { os.Remove(tmpFile.Name()) })

	_, err = tmpFile.WriteString(content)
	assert.NoError(t, err)
	assert.NoError(t, tmpFile.Close())
	return tmpFile.Name()
}

func TestMustLoadByPath_Success(t *testing.T) {
	// Обязательные переменные окружения
	t.Setenv("DB_PASSWORD", "mypassword")
	t.Setenv("JWT_SECRET", "mysecret")
	t.Setenv("CATALOG_URL", "http://catalog.local/products")

	content := `
env: "local"
http_server:
  address: "localhost:8080"
  timeout: "4s"
  idle_timeout: "60s"
database:
  host: "localhost"
  port: 5432
  user: "postgres"
  name: "shop"
storage:
  driver: "memory"
redis:
  address: "redis:6379"
  prefix: "test:"
catalog:
  timeout: "3s"
  cache_ttl: "1m"
pricing:
  institutional_domain: "@duocuc.cl"
  automatic_rate: 0.2
  coupon_prefix: "LEVELUP"
checkout:
  processing_delay: "0s"
jwt:
  token_ttl: 60
broker:
  enabled: true
rate_limit:
  rps: 5
  burst: 10
migrations:
  path: "./migrations"
`
	cfg := config.MustLoadByPath(writeConfig(t, content))

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "localhost:8080", cfg.HTTPServer.Address)
	assert.Equal(t, 4*time.Second, cfg.HTTPServer.Timeout)
	assert.Equal(t, 60*time.Second, cfg.HTTPServer.IdleTimeout)
	assert.Equal(t, "postgres", cfg.Database.User)
	assert.Equal(t, "mypassword", cfg.Database.Password)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "redis:6379", cfg.Redis.Address)
	assert.Equal(t, "test:", cfg.Redis.Prefix)
	assert.Equal(t, "http://catalog.local/products", cfg.Catalog.URL)
	assert.Equal(t, 3*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, time.Minute, cfg.Catalog.CacheTTL)
	assert.Equal(t, "@duocuc.cl", cfg.Pricing.InstitutionalDomain)
	assert.InDelta(t, 0.2, cfg.Pricing.AutomaticRate, 1e-9)
	assert.Equal(t, "LEVELUP", cfg.Pricing.CouponPrefix)
	assert.Equal(t, time.Duration(0), cfg.Checkout.ProcessingDelay)
	assert.Equal(t, "mysecret", cfg.JWT.Secret)
	assert.Equal(t, 60, cfg.JWT.TokenTTL)
	assert.True(t, cfg.Broker.Enabled)
	assert.InDelta(t, 5.0, cfg.RateLimit.RPS, 1e-9)
	assert.Equal(t, 10, cfg.RateLimit.Burst)
	assert.Equal(t, "./migrations", cfg.Migrations.Path)
}

func TestMustLoadByPath_Defaults(t *testing.T) {
	t.Setenv("DB_PASSWORD", "mypassword")
	t.Setenv("JWT_SECRET", "mysecret")
	t.Setenv("CATALOG_URL", "http://catalog.local/products")

	content := `
database:
  user: "postgres"
  name: "shop"
`
	cfg := config.MustLoadByPath(writeConfig(t, content))

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "redis", cfg.Storage.Driver)
	assert.Equal(t, 2*time.Second, cfg.Checkout.ProcessingDelay)
	assert.Equal(t, 5*time.Minute, cfg.Catalog.CacheTTL)
	assert.Equal(t, "LEVELUP", cfg.Pricing.CouponPrefix)
	assert.False(t, cfg.Broker.Enabled)
}

func TestMustLoadByPath_FileNotFound(t *testing.T) {
	// Ожидаем панику, если файла не существует
	assert.Panics(t, func() {
		config.MustLoadByPath("non_existent_config.yaml")
	})
}
