package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
	"github.com/linemk/levelup-shop/internal/catalog"
	"github.com/linemk/levelup-shop/internal/config"
	"github.com/linemk/levelup-shop/internal/lib/logger"
	"github.com/linemk/levelup-shop/internal/lib/ratelimit"
	"github.com/linemk/levelup-shop/internal/messaging/rabbitmq"
	"github.com/linemk/levelup-shop/internal/pricing"
	"github.com/linemk/levelup-shop/internal/service"
	"github.com/linemk/levelup-shop/internal/storage"
	"github.com/linemk/levelup-shop/internal/storage/kv"
)

type App struct {
	Config    *config.Config
	Logger    *slog.Logger
	DB        *sql.DB
	KV        kv.Store
	Publisher service.OrderPublisher
	Limiter   *ratelimit.Limiter

	closers []func() error
}

// DSN собирает строку подключения к PostgreSQL
func DSN(db config.DatabaseConfig) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		db.User,
		db.Password,
		db.Host,
		db.Port,
		db.Name,
	)
}

// NewApp создаёт новый экземпляр App: БД, key-value хранилище и, если включён, брокер
func NewApp(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	db, err := sql.Open("postgres", DSN(cfg.Database))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	app := &App{
		Config:    cfg,
		Logger:    log,
		DB:        db,
		Publisher: service.NopOrderPublisher{},
		Limiter:   ratelimit.NewLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.TTL),
		closers:   []func() error{db.Close},
	}

	switch cfg.Storage.Driver {
	case "memory":
		log.Warn("using in-memory storage, state is lost on restart")
		app.KV = kv.NewMemoryStore()
	case "redis":
		client, err := kv.NewRedisClient(ctx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		app.closers = append(app.closers, client.Close)
		app.KV = kv.NewRedisStore(client, cfg.Redis.Prefix)
	default:
		_ = app.Close()
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	if cfg.Broker.Enabled {
		conn, ch, err := rabbitmq.SetupConn(log, cfg.Broker.URL, 5)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		app.closers = append(app.closers, ch.Close, conn.Close)
		app.Publisher = rabbitmq.NewOrderPublisher(ch)
	}

	return app, nil
}

// Services собирает репозитории и сервисы поверх ресурсов приложения
func (a *App) Services() Services {
	users := storage.NewUserRepository(a.KV)
	carts := storage.NewCartRepository(a.KV)
	orders := storage.NewOrderRepository(a.KV)
	reviews := storage.NewReviewRepository(a.DB)
	events := storage.NewEventRepository(a.DB)

	cfg := a.Config
	coupons := pricing.NewCouponManager(pricing.Rules{
		InstitutionalDomain: cfg.Pricing.InstitutionalDomain,
		AutomaticRate:       cfg.Pricing.AutomaticRate,
		CouponPrefix:        cfg.Pricing.CouponPrefix,
	})
	products := catalog.NewClient(a.Logger, cfg.Catalog.URL, cfg.Catalog.Timeout, cfg.Catalog.CacheTTL)

	return Services{
		Catalog:  products,
		Auth:     service.NewAuthService(a.Logger, users, cfg.JWT.Secret, time.Duration(cfg.JWT.TokenTTL)*time.Minute),
		Cart:     service.NewCartService(a.Logger, carts, users, products, coupons),
		Checkout: service.NewCheckoutService(a.Logger, carts, orders, users, products, coupons, a.Publisher, cfg.Checkout.ProcessingDelay),
		Orders:   service.NewOrderService(a.Logger, orders),
		Profile:  service.NewProfileService(a.Logger, users, coupons),
		Reviews:  service.NewReviewService(a.Logger, reviews, users),
		Events:   service.NewEventService(a.Logger, events),
	}
}

// Close освобождает ресурсы в обратном порядке
func (a *App) Close() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Logger.Error("failed to close resource", logger.Err(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	a.closers = nil
	return firstErr
}
