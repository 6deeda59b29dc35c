package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/linemk/levelup-shop/internal/domain/models"
	"github.com/linemk/levelup-shop/internal/lib/logger"
	"github.com/linemk/levelup-shop/internal/pricing"
	"github.com/linemk/levelup-shop/internal/storage"
)

type ProfileUpdate struct {
	Name    *string
	Phone   *string
	Address *string
}

type RedeemResult struct {
	CouponCode      string `json:"couponCode"`
	RedeemedPoints  int64  `json:"redeemedPoints"`
	RemainingPoints int64  `json:"remainingPoints"`
}

type ProfileService interface {
	GetProfile(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*models.User, error)
	// RedeemPoints списывает баллы и возвращает купон LEVELUP<баллы>
	RedeemPoints(ctx context.Context, userID string, points int64) (*RedeemResult, error)
}

type profileService struct {
	log     *slog.Logger
	users   storage.UserStorage
	coupons *pricing.CouponManager
}

func NewProfileService(log *slog.Logger, users storage.UserStorage, coupons *pricing.CouponManager) ProfileService {
	return &profileService{log: log, users: users, coupons: coupons}
}

func (s *profileService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	const op = "service.ProfileService.GetProfile"

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*models.User, error) {
	const op = "service.ProfileService.UpdateProfile"
	log := s.log.With(slog.String("op", op), slog.String("userID", userID))

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, fmt.Errorf("%s: name must not be blank: %w", op, ErrInvalidInput)
		}
		user.Name = name
	}
	if upd.Phone != nil {
		user.Phone = strings.TrimSpace(*upd.Phone)
	}
	if upd.Address != nil {
		user.Address = strings.TrimSpace(*upd.Address)
	}

	if err := s.users.UpdateUser(ctx, user); err != nil {
		log.Error("failed to update user", logger.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("profile updated")
	return user, nil
}

func (s *profileService) RedeemPoints(ctx context.Context, userID string, points int64) (*RedeemResult, error) {
	const op = "service.ProfileService.RedeemPoints"
	log := s.log.With(slog.String("op", op), slog.String("userID", userID), slog.Int64("points", points))

	if points <= 0 || points > math.MaxInt32 {
		return nil, fmt.Errorf("%s: points must be between 1 and %d: %w", op, math.MaxInt32, ErrInvalidInput)
	}

	user, err := s.users.AdjustPoints(ctx, userID, -points)
	if err != nil {
		if errors.Is(err, storage.ErrInsufficientPoints) {
			log.Warn("not enough points")
		} else {
			log.Error("failed to redeem points", logger.Err(err))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("points redeemed")
	return &RedeemResult{
		CouponCode:      s.coupons.CouponCode(points),
		RedeemedPoints:  points,
		RemainingPoints: user.LevelUpPoints,
	}, nil
}
