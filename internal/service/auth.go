package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/linemk/levelup-shop/internal/domain/models"
	security "github.com/linemk/levelup-shop/internal/jwt-new"
	"github.com/linemk/levelup-shop/internal/lib/logger"
	"github.com/linemk/levelup-shop/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

const (
	SignupPoints   = 1000
	ReferralBonus  = 1000
	MinAge         = 18
	birthDayLayout = "02012006" // DDMMYYYY
)

type AuthServiceInterface interface {
	Register(ctx context.Context, in RegisterInput) (*RegisterResult, error)
	Login(ctx context.Context, email, password string) (string, error)
}

type RegisterInput struct {
	Name         string
	Email        string
	Password     string
	Phone        string
	Address      string
	BirthDate    string // DDMMYYYY
	ReferralCode string
}

type RegisterResult struct {
	User    *models.User
	Token   string
	Message string
}

type AuthService struct {
	log       *slog.Logger
	userRepo  storage.UserStorage
	jwtSecret string
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewAuthService(log *slog.Logger, userRepo storage.UserStorage, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		log:       log,
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

// Age считает полные годы на дату now
func Age(birth, now time.Time) int {
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age
}

// Register создаёт пользователя со стартовыми баллами.
// Валидный реферальный код даёт по ReferralBonus новому пользователю и пригласившему,
// невалидный код не мешает регистрации.
func (a *AuthService) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	const op = "auth.Register"
	log := a.log.With(slog.String("op", op), slog.String("email", in.Email))

	if strings.TrimSpace(in.Email) == "" || len(in.Password) < 6 {
		return nil, fmt.Errorf("%s: email and password (min 6) are required: %w", op, ErrInvalidInput)
	}

	birth, err := time.Parse(birthDayLayout, strings.TrimSpace(in.BirthDate))
	if err != nil {
		log.Warn("invalid birth date", slog.String("birthDate", in.BirthDate))
		return nil, fmt.Errorf("%s: birth date must be DDMMYYYY: %w", op, ErrInvalidInput)
	}
	if Age(birth, a.now()) < MinAge {
		log.Warn("user is underage")
		return nil, fmt.Errorf("%s: %w", op, ErrUnderage)
	}

	var message string
	var referrerID string
	points := int64(SignupPoints)

	if code := strings.TrimSpace(in.ReferralCode); code != "" {
		referrer, err := a.userRepo.GetUserByReferralCode(ctx, code)
		switch {
		case errors.Is(err, storage.ErrUserNotFound):
			message = "Código de referido no válido. Se registrará sin bonos."
		case err != nil:
			log.Error("failed to look up referral code", logger.Err(err))
			return nil, fmt.Errorf("%s: failed to look up referral code: %w", op, err)
		default:
			referrerID = referrer.ID
			points += ReferralBonus
			message = "¡Código válido! Recibirás 1000 puntos extra."
		}
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to hash password", logger.Err(err))
		return nil, fmt.Errorf("%s: failed to hash password: %w", op, err)
	}

	user, err := a.userRepo.CreateUser(ctx, &models.User{
		Name:          strings.TrimSpace(in.Name),
		Email:         strings.TrimSpace(in.Email),
		PassHash:      passHash,
		Phone:         strings.TrimSpace(in.Phone),
		Address:       strings.TrimSpace(in.Address),
		LevelUpPoints: points,
	}, referrerID, ReferralBonus)
	if err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			log.Warn("email already registered")
		} else {
			log.Error("failed to create user", logger.Err(err))
		}
		return nil, fmt.Errorf("%s: failed to create user: %w", op, err)
	}

	token, err := security.NewToken(user, a.jwtSecret, a.tokenTTL)
	if err != nil {
		log.Error("failed to generate token", logger.Err(err))
		return nil, fmt.Errorf("%s: failed to generate token: %w", op, err)
	}

	log.Info("user registered", slog.String("userID", user.ID), slog.Bool("referred", referrerID != ""))
	return &RegisterResult{User: user, Token: token, Message: message}, nil
}

// Login проверяет пароль через bcrypt и выдаёт JWT-токен
func (a *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	const op = "auth.Login"
	log := a.log.With(slog.String("op", op), slog.String("email", email))
	log.Info("checking user")

	user, err := a.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn("user not found")
			return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		log.Error("failed to get user", logger.Err(err))
		return "", fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PassHash, []byte(password)); err != nil {
		log.Warn("invalid password")
		return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	token, err := security.NewToken(user, a.jwtSecret, a.tokenTTL)
	if err != nil {
		log.Error("failed to generate token", logger.Err(err))
		return "", fmt.Errorf("%s: failed to generate token: %w", op, err)
	}

	log.Info("user logged in successfully", slog.String("userID", user.ID))
	return token, nil
}
