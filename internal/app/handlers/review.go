package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/linemk/levelup-shop/internal/domain/models"
	"github.com/linemk/levelup-shop/internal/service"
)

// ReviewRequest: ID указывают только для замены своего отзыва
type ReviewRequest struct {
	ID      int64  `json:"id,omitempty" validate:"gte=0"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=1000"`
}

func ListReviewsHandler(log *slog.Logger, reviews service.ReviewService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.ListReviewsHandler"))

		list, err := reviews.ListReviews(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, list)
	}
}

func AddReviewHandler(log *slog.Logger, reviews service.ReviewService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.AddReviewHandler"))

		id, ok := userID(w, r, logger)
		if !ok {
			return
		}

		var req ReviewRequest
		if !decodeAndValidate(w, r, logger, &req) {
			return
		}

		saved, err := reviews.AddReview(r.Context(), id, &models.Review{
			ID:          req.ID,
			ProductCode: chi.URLParam(r, "id"),
			Rating:      req.Rating,
			Comment:     req.Comment,
		})
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusCreated, saved)
	}
}
