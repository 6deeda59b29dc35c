package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/linemk/levelup-shop/internal/app/handlers"
	"github.com/linemk/levelup-shop/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/levelup-shop/internal/lib/logger/handlers/urllog"
	"github.com/linemk/levelup-shop/internal/lib/ratelimit"
	"github.com/linemk/levelup-shop/internal/service"
)

type Services struct {
	Catalog  service.Catalog
	Auth     service.AuthServiceInterface
	Cart     service.CartService
	Checkout service.CheckoutService
	Orders   service.OrderService
	Profile  service.ProfileService
	Reviews  service.ReviewService
	Events   service.EventService
}

// NewRouter регистрирует все эндпоинты API; limiter может быть nil
func NewRouter(log *slog.Logger, jwtSecret string, limiter *ratelimit.Limiter, s Services) http.Handler {
	router := chi.NewRouter()
	// настройка middleware
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(middleware.Recoverer)

	limit := func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter.Middleware)
		}
	}

	// публичные эндпоинты, лимит по IP
	router.Group(func(r chi.Router) {
		limit(r)

		r.Post("/api/auth/register", handlers.RegisterHandler(log, s.Auth))
		r.Post("/api/auth/login", handlers.LoginHandler(log, s.Auth))
		r.Get("/api/products", handlers.ListProductsHandler(log, s.Catalog))
		r.Get("/api/products/{id}", handlers.GetProductHandler(log, s.Catalog))
		r.Get("/api/products/{id}/reviews", handlers.ListReviewsHandler(log, s.Reviews))
		r.Get("/api/events", handlers.ListEventsHandler(log, s.Events))
	})

	// эндпоинты с токеном, лимит по пользователю
	router.Group(func(r chi.Router) {
		r.Use(jwtmiddleware.NewJWTMiddleware(jwtSecret))
		limit(r)

		r.Post("/api/products/{id}/reviews", handlers.AddReviewHandler(log, s.Reviews))
		r.Post("/api/events", handlers.CreateEventHandler(log, s.Events))

		r.Get("/api/cart", handlers.GetCartHandler(log, s.Cart))
		r.Delete("/api/cart", handlers.ClearCartHandler(log, s.Cart))
		r.Post("/api/cart/items", handlers.AddItemHandler(log, s.Cart))
		// PATCH уменьшает количество на единицу
		r.Patch("/api/cart/items/{id}", handlers.DecreaseItemHandler(log, s.Cart))
		r.Delete("/api/cart/items/{id}", handlers.RemoveItemHandler(log, s.Cart))
		r.Post("/api/cart/coupon", handlers.ApplyCouponHandler(log, s.Cart))
		r.Delete("/api/cart/coupon", handlers.RemoveCouponHandler(log, s.Cart))

		r.Post("/api/checkout", handlers.CheckoutHandler(log, s.Checkout))
		r.Get("/api/orders", handlers.ListOrdersHandler(log, s.Orders))

		r.Get("/api/profile", handlers.GetProfileHandler(log, s.Profile))
		r.Put("/api/profile", handlers.UpdateProfileHandler(log, s.Profile))
		r.Post("/api/profile/redeem", handlers.RedeemPointsHandler(log, s.Profile))
	})

	return router
}
