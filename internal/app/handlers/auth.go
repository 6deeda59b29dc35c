package handlers

import (
	"log/slog"
	"net/http"

	"github.com/linemk/levelup-shop/internal/service"
)

// LoginRequest запрос на вход
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// RegisterRequest запрос на регистрацию, дата рождения в формате DDMMYYYY
type RegisterRequest struct {
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=6"`
	Phone        string `json:"phone" validate:"required"`
	Address      string `json:"address" validate:"required"`
	BirthDate    string `json:"birthDate" validate:"required,len=8,numeric"`
	ReferralCode string `json:"referralCode,omitempty"`
}

// AuthResponse ответ с JWT-токеном
type AuthResponse struct {
	Token   string        `json:"token"`
	User    *UserResponse `json:"user,omitempty"`
	Message string        `json:"message,omitempty"`
}

// LoginHandler выдаёт токен по email и паролю
func LoginHandler(log *slog.Logger, authService service.AuthServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.LoginHandler"
		logger := log.With(slog.String("op", op))

		var req LoginRequest
		if !decodeAndValidate(w, r, logger, &req) {
			return
		}

		token, err := authService.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}

		writeJSON(w, logger, http.StatusOK, AuthResponse{Token: token})
	}
}

// RegisterHandler создаёт пользователя и сразу выдаёт токен
func RegisterHandler(log *slog.Logger, authService service.AuthServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.RegisterHandler"
		logger := log.With(slog.String("op", op))

		var req RegisterRequest
		if !decodeAndValidate(w, r, logger, &req) {
			return
		}

		res, err := authService.Register(r.Context(), service.RegisterInput{
			Name:         req.Name,
			Email:        req.Email,
			Password:     req.Password,
			Phone:        req.Phone,
			Address:      req.Address,
			BirthDate:    req.BirthDate,
			ReferralCode: req.ReferralCode,
		})
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}

		writeJSON(w, logger, http.StatusCreated, AuthResponse{Token: res.Token, User: toUserResponse(res.User), Message: res.Message})
	}
}
