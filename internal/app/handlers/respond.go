package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/linemk/levelup-shop/internal/catalog"
	"github.com/linemk/levelup-shop/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/levelup-shop/internal/lib/logger"
	"github.com/linemk/levelup-shop/internal/service"
	"github.com/linemk/levelup-shop/internal/storage"
)

var validate = validator.New()

// ErrorResponse: тело ответа с ошибкой
type ErrorResponse struct {
	Errors string `json:"errors"`
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response", logger.Err(err))
	}
}

func writeError(w http.ResponseWriter, log *slog.Logger, status int, msg string) {
	writeJSON(w, log, status, ErrorResponse{Errors: msg})
}

// errorStatus сопоставляет доменные ошибки с HTTP-статусами
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrUnderage),
		errors.Is(err, storage.ErrInvalidReview),
		errors.Is(err, storage.ErrInsufficientPoints):
		return http.StatusBadRequest, rootMessage(err)
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, service.ErrInvalidCredentials.Error()
	case errors.Is(err, storage.ErrUserExists):
		return http.StatusConflict, storage.ErrUserExists.Error()
	case errors.Is(err, storage.ErrUserNotFound):
		return http.StatusNotFound, storage.ErrUserNotFound.Error()
	case errors.Is(err, storage.ErrReviewNotFound):
		return http.StatusNotFound, storage.ErrReviewNotFound.Error()
	case errors.Is(err, catalog.ErrProductNotFound):
		return http.StatusNotFound, catalog.ErrProductNotFound.Error()
	case errors.Is(err, catalog.ErrCatalogUnavailable):
		return http.StatusBadGateway, catalog.ErrCatalogUnavailable.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// rootMessage отдаёт клиенту текст без префиксов op
func rootMessage(err error) string {
	for _, target := range []error{
		service.ErrUnderage,
		storage.ErrInvalidReview,
		storage.ErrInsufficientPoints,
	} {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return service.ErrInvalidInput.Error()
}

func writeServiceError(w http.ResponseWriter, log *slog.Logger, err error) {
	status, msg := errorStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", logger.Err(err))
	} else {
		log.Warn("request rejected", logger.Err(err))
	}
	writeError(w, log, status, msg)
}

// decodeAndValidate читает JSON-тело и проверяет его тегами validate
func decodeAndValidate(w http.ResponseWriter, r *http.Request, log *slog.Logger, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Error("invalid request: decoding error", logger.Err(err))
		writeError(w, log, http.StatusBadRequest, "invalid request")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		log.Error("invalid request: validation error", logger.Err(err))
		writeError(w, log, http.StatusBadRequest, "validation error")
		return false
	}
	return true
}

// userID извлекает пользователя, установленного JWT-middleware
func userID(w http.ResponseWriter, r *http.Request, log *slog.Logger) (string, bool) {
	id, ok := jwtmiddleware.FromContext(r.Context())
	if !ok {
		log.Error("userID not found in context")
		writeError(w, log, http.StatusUnauthorized, "unauthorized")
		return "", false
	}
	return id, true
}

func intParam(w http.ResponseWriter, r *http.Request, log *slog.Logger, name string) (int, bool) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		log.Warn("invalid path parameter", slog.String("param", name))
		writeError(w, log, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return v, true
}
