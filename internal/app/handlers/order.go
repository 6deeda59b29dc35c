package handlers

import (
	"log/slog"
	"net/http"

	"github.com/linemk/levelup-shop/internal/service"
)

// ListOrdersHandler возвращает историю заказов текущего пользователя
func ListOrdersHandler(log *slog.Logger, orders service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.ListOrdersHandler"))

		id, ok := userID(w, r, logger)
		if !ok {
			return
		}

		list, err := orders.ListOrders(r.Context(), id)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, list)
	}
}
