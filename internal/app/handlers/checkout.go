package handlers

import (
	"log/slog"
	"net/http"

	"github.com/linemk/levelup-shop/internal/service"
)

// CheckoutHandler оплачивает корзину.
// Отклонённые данные карты и пустая корзина возвращают 422 с ошибками по полям.
func CheckoutHandler(log *slog.Logger, checkout service.CheckoutService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.CheckoutHandler"))

		id, ok := userID(w, r, logger)
		if !ok {
			return
		}

		var req service.PaymentDetails
		if !decodeAndValidate(w, r, logger, &req) {
			return
		}

		res, err := checkout.Checkout(r.Context(), id, req)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}

		status := http.StatusOK
		if res.State != service.StateSuccess {
			status = http.StatusUnprocessableEntity
		}
		writeJSON(w, logger, status, res)
	}
}
