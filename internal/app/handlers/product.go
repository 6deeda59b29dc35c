package handlers

import (
	"log/slog"
	"net/http"

	"github.com/linemk/levelup-shop/internal/service"
)

func ListProductsHandler(log *slog.Logger, catalog service.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.ListProductsHandler"))

		products, err := catalog.Products(r.Context())
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, products)
	}
}

func GetProductHandler(log *slog.Logger, catalog service.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.GetProductHandler"))

		id, ok := intParam(w, r, logger, "id")
		if !ok {
			return
		}

		product, err := catalog.Product(r.Context(), id)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, product)
	}
}
