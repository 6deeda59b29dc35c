package handlers

import (
	"log/slog"
	"net/http"

	"github.com/linemk/levelup-shop/internal/domain/models"
	"github.com/linemk/levelup-shop/internal/service"
)

// UserResponse: профиль без хэша пароля
type UserResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	LevelUpPoints int64  `json:"levelUpPoints"`
	ReferralCode  string `json:"referralCode"`
}

func toUserResponse(u *models.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Phone:         u.Phone,
		Address:       u.Address,
		LevelUpPoints: u.LevelUpPoints,
		ReferralCode:  u.ReferralCode,
	}
}

type UpdateProfileRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

type RedeemRequest struct {
	Points int64 `json:"points" validate:"required,gt=0"`
}

func GetProfileHandler(log *slog.Logger, profiles service.ProfileService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.GetProfileHandler"))

		id, ok := userID(w, r, logger)
		if !ok {
			return
		}

		user, err := profiles.GetProfile(r.Context(), id)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, toUserResponse(user))
	}
}

func UpdateProfileHandler(log *slog.Logger, profiles service.ProfileService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.UpdateProfileHandler"))

		id, ok := userID(w, r, logger)
		if !ok {
			return
		}

		var req UpdateProfileRequest
		if !decodeAndValidate(w, r, logger, &req) {
			return
		}

		user, err := profiles.UpdateProfile(r.Context(), id, service.ProfileUpdate{
			Name:    req.Name,
			Phone:   req.Phone,
			Address: req.Address,
		})
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, toUserResponse(user))
	}
}

// RedeemPointsHandler обменивает баллы на купон LEVELUP<баллы>
func RedeemPointsHandler(log *slog.Logger, profiles service.ProfileService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.RedeemPointsHandler"))

		id, ok := userID(w, r, logger)
		if !ok {
			return
		}

		var req RedeemRequest
		if !decodeAndValidate(w, r, logger, &req) {
			return
		}

		res, err := profiles.RedeemPoints(r.Context(), id, req.Points)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, res)
	}
}
