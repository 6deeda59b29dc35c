package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/linemk/levelup-shop/internal/domain/models"
)

var (
	ErrInvalidReview  = errors.New("invalid review")
	ErrReviewNotFound = errors.New("review not found")
)

type ReviewStorage interface {
	// InsertReview сохраняет новый отзыв, ID назначает база
	InsertReview(ctx context.Context, review *models.Review) (*models.Review, error)
	// UpdateReview заменяет оценку и текст отзыва, если он принадлежит review.UserID
	UpdateReview(ctx context.Context, review *models.Review) (*models.Review, error)
	// GetReviewsByProduct возвращает отзывы товара, новые первыми
	GetReviewsByProduct(ctx context.Context, productCode string) ([]*models.Review, error)
}

type reviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) ReviewStorage {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) InsertReview(ctx context.Context, review *models.Review) (*models.Review, error) {
	row := r.db.QueryRowContext(ctx,
		"INSERT INTO reviews (product_code, user_id, username, rating, comment) VALUES ($1, $2, $3, $4, $5) RETURNING id",
		review.ProductCode, review.UserID, review.Username, review.Rating, review.Comment,
	)
	return scanReviewID(row, review)
}

func (r *reviewRepository) UpdateReview(ctx context.Context, review *models.Review) (*models.Review, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE reviews SET username = $1, rating = $2, comment = $3
		WHERE id = $4 AND user_id = $5 AND product_code = $6 RETURNING id`,
		review.Username, review.Rating, review.Comment, review.ID, review.UserID, review.ProductCode,
	)
	return scanReviewID(row, review)
}

func scanReviewID(row *sql.Row, review *models.Review) (*models.Review, error) {
	var id int64
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23514" { // check_violation
			return nil, fmt.Errorf("%w: %s", ErrInvalidReview, pqErr.Message)
		}
		return nil, err
	}
	review.ID = id
	return review, nil
}

func (r *reviewRepository) GetReviewsByProduct(ctx context.Context, productCode string) ([]*models.Review, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, product_code, username, rating, comment FROM reviews WHERE product_code = $1 ORDER BY id DESC",
		productCode,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []*models.Review{}
	for rows.Next() {
		review := &models.Review{}
		if err := rows.Scan(&review.ID, &review.ProductCode, &review.Username, &review.Rating, &review.Comment); err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}
