package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/linemk/levelup-shop/internal/domain/models"
	"github.com/linemk/levelup-shop/internal/lib/logger"
	"github.com/linemk/levelup-shop/internal/storage"
)

type ReviewService interface {
	// AddReview публикует отзыв от имени пользователя userID.
	// Отзыв с ID заменяет существующий только если его автор userID.
	AddReview(ctx context.Context, userID string, review *models.Review) (*models.Review, error)
	ListReviews(ctx context.Context, productCode string) ([]*models.Review, error)
}

type reviewService struct {
	log     *slog.Logger
	reviews storage.ReviewStorage
	users   storage.UserStorage
}

func NewReviewService(log *slog.Logger, reviews storage.ReviewStorage, users storage.UserStorage) ReviewService {
	return &reviewService{log: log, reviews: reviews, users: users}
}

func (s *reviewService) AddReview(ctx context.Context, userID string, review *models.Review) (*models.Review, error) {
	const op = "service.ReviewService.AddReview"
	log := s.log.With(slog.String("op", op), slog.String("productCode", review.ProductCode), slog.String("userID", userID))

	review.ProductCode = strings.TrimSpace(review.ProductCode)
	review.Comment = strings.TrimSpace(review.Comment)
	if review.ProductCode == "" || review.Rating < 1 || review.Rating > 5 {
		return nil, fmt.Errorf("%s: rating must be 1..5: %w", op, ErrInvalidInput)
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	// имя автора берётся из профиля, а не из запроса
	review.UserID = user.ID
	review.Username = user.Name
	if review.Username == "" {
		review.Username = user.Email
	}

	var saved *models.Review
	if review.ID > 0 {
		saved, err = s.reviews.UpdateReview(ctx, review)
	} else {
		saved, err = s.reviews.InsertReview(ctx, review)
	}
	if err != nil {
		if errors.Is(err, storage.ErrReviewNotFound) {
			log.Warn("review to replace not found or not owned", slog.Int64("reviewID", review.ID))
		} else {
			log.Error("failed to save review", logger.Err(err))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("review saved", slog.Int64("reviewID", saved.ID))
	return saved, nil
}

func (s *reviewService) ListReviews(ctx context.Context, productCode string) ([]*models.Review, error) {
	const op = "service.ReviewService.ListReviews"

	reviews, err := s.reviews.GetReviewsByProduct(ctx, productCode)
	if err != nil {
		s.log.Error("failed to list reviews", slog.String("op", op), logger.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return reviews, nil
}
