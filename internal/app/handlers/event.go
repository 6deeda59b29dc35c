package handlers

import (
	"log/slog"
	"net/http"

	"github.com/linemk/levelup-shop/internal/domain/models"
	"github.com/linemk/levelup-shop/internal/service"
)

type EventRequest struct {
	Name      string  `json:"name" validate:"required"`
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
	Points    int     `json:"points" validate:"required,gt=0"`
}

func ListEventsHandler(log *slog.Logger, events service.EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.ListEventsHandler"))

		list, err := events.ListEvents(r.Context())
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, list)
	}
}

func CreateEventHandler(log *slog.Logger, events service.EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.CreateEventHandler"))

		var req EventRequest
		if !decodeAndValidate(w, r, logger, &req) {
			return
		}

		created, err := events.CreateEvent(r.Context(), &models.GameEvent{
			Name:      req.Name,
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
			Points:    req.Points,
		})
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusCreated, created)
	}
}
