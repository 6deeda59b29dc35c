package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/linemk/levelup-shop/internal/domain/models"
	"github.com/linemk/levelup-shop/internal/storage/kv"
	"golang.org/x/crypto/bcrypt"
)

const allUsersKey = "all_users"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user with this email already exists")
	ErrInsufficientPoints = errors.New("insufficient level-up points")
)

type UserStorage interface {
	ListUsers(ctx context.Context) ([]*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByReferralCode(ctx context.Context, code string) (*models.User, error)
	// CreateUser добавляет пользователя; если referrerID не пуст, пригласившему начисляется referrerBonus
	CreateUser(ctx context.Context, user *models.User, referrerID string, referrerBonus int64) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	// AdjustPoints меняет баланс баллов на delta, баланс не может уйти в минус
	AdjustPoints(ctx context.Context, id string, delta int64) (*models.User, error)
}

// userRepository хранит весь список пользователей одним JSON-документом
type userRepository struct {
	store kv.Store
	// сериализует чтение-изменение-запись списка внутри процесса
	mu sync.Mutex
}

func NewUserRepository(store kv.Store) *userRepository {
	return &userRepository{store: store}
}

// NewReferralCode генерирует короткий код приглашения
func NewReferralCode() string {
	return strings.ToUpper(uuid.NewString()[:8])
}

// DefaultUser: демонстрационный пользователь, которым засевается пустой список
func DefaultUser() (*models.User, error) {
	passHash, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash default password: %w", err)
	}
	return &models.User{
		ID:            uuid.NewString(),
		Name:          "Gamer de Prueba",
		Email:         "usuario@ejemplo.com",
		PassHash:      passHash,
		Phone:         "+56912345678",
		Address:       "Av. Siempre Viva 123, Concepción",
		LevelUpPoints: 5000,
		ReferralCode:  NewReferralCode(),
	}, nil
}

// loadUsers читает список; пустой или битый список засевается пользователем по умолчанию
func (r *userRepository) loadUsers(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	found, err := loadJSON(ctx, r.store, allUsersKey, &users)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	if found && len(users) > 0 {
		return users, nil
	}

	defaultUser, err := DefaultUser()
	if err != nil {
		return nil, err
	}
	users = []*models.User{defaultUser}
	if err := saveJSON(ctx, r.store, allUsersKey, users); err != nil {
		return nil, fmt.Errorf("failed to seed users: %w", err)
	}
	return users, nil
}

func (r *userRepository) ListUsers(ctx context.Context) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadUsers(ctx)
}

func (r *userRepository) find(ctx context.Context, match func(u *models.User) bool) (*models.User, error) {
	users, err := r.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if match(u) {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *userRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return r.find(ctx, func(u *models.User) bool { return u.ID == id })
}

// GetUserByEmail ищет без учёта регистра
func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.TrimSpace(email)
	return r.find(ctx, func(u *models.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *userRepository) GetUserByReferralCode(ctx context.Context, code string) (*models.User, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrUserNotFound
	}
	return r.find(ctx, func(u *models.User) bool { return strings.EqualFold(u.ReferralCode, code) })
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User, referrerID string, referrerBonus int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.loadUsers(ctx)
	if err != nil {
		return nil, err
	}

	referrerFound := referrerID == ""
	for _, u := range users {
		if strings.EqualFold(u.Email, user.Email) {
			return nil, ErrUserExists
		}
		if referrerID != "" && u.ID == referrerID {
			u.LevelUpPoints += referrerBonus
			referrerFound = true
		}
	}
	if !referrerFound {
		return nil, fmt.Errorf("referrer %s: %w", referrerID, ErrUserNotFound)
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.ReferralCode == "" {
		user.ReferralCode = NewReferralCode()
	}
	users = append(users, user)

	if err := saveJSON(ctx, r.store, allUsersKey, users); err != nil {
		return nil, fmt.Errorf("failed to save users: %w", err)
	}
	return user, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.loadUsers(ctx)
	if err != nil {
		return err
	}

	for i, u := range users {
		if u.ID == user.ID {
			users[i] = user
			return saveJSON(ctx, r.store, allUsersKey, users)
		}
	}
	return ErrUserNotFound
}

func (r *userRepository) AdjustPoints(ctx context.Context, id string, delta int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.loadUsers(ctx)
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		if u.ID != id {
			continue
		}
		if u.LevelUpPoints+delta < 0 {
			return nil, ErrInsufficientPoints
		}
		u.LevelUpPoints += delta
		if err := saveJSON(ctx, r.store, allUsersKey, users); err != nil {
			return nil, fmt.Errorf("failed to save users: %w", err)
		}
		return u, nil
	}
	return nil, ErrUserNotFound
}
