package handlers

import (
	"log/slog"
	"net/http"

	"github.com/linemk/levelup-shop/internal/service"
)

type AddItemRequest struct {
	ProductID int `json:"productId" validate:"required"`
	Quantity  int `json:"quantity" validate:"omitempty,gt=0,lte=999"`
}

type CouponRequest struct {
	Code string `json:"code" validate:"required"`
}

func GetCartHandler(log *slog.Logger, carts service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.GetCartHandler"))

		id, ok := userID(w, r, logger)
		if !ok {
			return
		}

		view, err := carts.GetCart(r.Context(), id)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, view)
	}
}

// AddItemHandler добавляет товар, количество по умолчанию 1
func AddItemHandler(log *slog.Logger, carts service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.AddItemHandler"))

		id, ok := userID(w, r, logger)
		if !ok {
			return
		}

		var req AddItemRequest
		if !decodeAndValidate(w, r, logger, &req) {
			return
		}
		if req.Quantity == 0 {
			req.Quantity = 1
		}

		view, err := carts.AddItem(r.Context(), id, req.ProductID, req.Quantity)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, view)
	}
}

// DecreaseItemHandler уменьшает количество на единицу
func DecreaseItemHandler(log *slog.Logger, carts service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.DecreaseItemHandler"))

		id, ok := userID(w, r, logger)
		if !ok {
			return
		}
		productID, ok := intParam(w, r, logger, "id")
		if !ok {
			return
		}

		view, err := carts.DecreaseItem(r.Context(), id, productID)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, view)
	}
}

func RemoveItemHandler(log *slog.Logger, carts service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.RemoveItemHandler"))

		id, ok := userID(w, r, logger)
		if !ok {
			return
		}
		productID, ok := intParam(w, r, logger, "id")
		if !ok {
			return
		}

		view, err := carts.RemoveItem(r.Context(), id, productID)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, view)
	}
}

// ApplyCouponHandler всегда отвечает 200: невалидный код описывается в сообщении
func ApplyCouponHandler(log *slog.Logger, carts service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.ApplyCouponHandler"))

		id, ok := userID(w, r, logger)
		if !ok {
			return
		}

		var req CouponRequest
		if !decodeAndValidate(w, r, logger, &req) {
			return
		}

		res, err := carts.ApplyCoupon(r.Context(), id, req.Code)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, res)
	}
}

func RemoveCouponHandler(log *slog.Logger, carts service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.RemoveCouponHandler"))

		id, ok := userID(w, r, logger)
		if !ok {
			return
		}

		view, err := carts.RemoveCoupon(r.Context(), id)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, view)
	}
}

func ClearCartHandler(log *slog.Logger, carts service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.ClearCartHandler"))

		id, ok := userID(w, r, logger)
		if !ok {
			return
		}

		if err := carts.Clear(r.Context(), id); err != nil {
			writeServiceError(w, logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
