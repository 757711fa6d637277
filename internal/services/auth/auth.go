// Package services содержит логику бизнес-уровня для регистрации,
// проверки учётных данных и выдачи токенов аутентификации.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/user-auth-service/internal/lib/emailaddr"
	"github.com/magabrotheeeer/user-auth-service/internal/lib/password"
	"github.com/magabrotheeeer/user-auth-service/internal/lib/sl"
	"github.com/magabrotheeeer/user-auth-service/internal/lib/token"
	"github.com/magabrotheeeer/user-auth-service/internal/models"
	"github.com/magabrotheeeer/user-auth-service/internal/storage"
)

// Ошибки бизнес-уровня аутентификации.
var (
	// ErrInvalidCredentials возвращается и для неизвестного email,
	// и для неверного пароля: ответ не раскрывает причину отказа.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken возвращается для неизвестного ключа токена.
	ErrInvalidToken = errors.New("invalid token")
	// ErrInactiveUser возвращается, если владелец токена деактивирован.
	ErrInactiveUser = errors.New("user is inactive")
)

// tokenCacheTTL — время жизни записи токена в кеше. В кеш попадают только
// uid, email и is_active, поэтому правки профиля не делают его устаревшим.
const tokenCacheTTL = 5 * time.Minute

// UserRepository описывает контракт для работы с пользователями и токенами в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его UID.
	CreateUser(ctx context.Context, user models.User) (string, error)

	// GetUserByEmail возвращает пользователя по нормализованному email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetOrCreateToken идемпотентно выдает токен пользователю.
	GetOrCreateToken(ctx context.Context, userUID, newKey string) (string, error)

	// GetUserByTokenKey возвращает владельца токена.
	GetUserByTokenKey(ctx context.Context, key string) (*models.User, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// EventPublisher публикует события жизненного цикла пользователей.
type EventPublisher interface {
	PublishUserRegistered(event models.UserRegisteredEvent) error
}

// cachedIdentity — компактное представление владельца токена в кеше.
type cachedIdentity struct {
	UID      string `json:"uid"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

// AuthService отвечает за регистрацию, проверку учётных данных и токены.
type AuthService struct {
	users  UserRepository
	cache  Cache
	events EventPublisher
	log    *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
// events может быть nil, если брокер не сконфигурирован.
func NewAuthService(users UserRepository, cache Cache, events EventPublisher, log *slog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		cache:  cache,
		events: events,
		log:    log,
	}
}

// Register создает нового пользователя: нормализует email, хэширует пароль
// и сохраняет запись. Пустой email — ошибка валидации.
func (s *AuthService) Register(ctx context.Context, email, rawPassword, name string) (*models.User, error) {
	const op = "auth.Register"

	normalized, err := emailaddr.Normalize(email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user := models.User{
		Email:        normalized,
		Name:         name,
		PasswordHash: hashed,
		IsActive:     true,
	}
	uid, err := s.users.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	user.UID = uid
	user.CreatedAt = time.Now().UTC()

	s.log.Info("user registered", slog.String("uid", uid))

	if s.events != nil {
		event := models.UserRegisteredEvent{
			Email:     user.Email,
			Name:      user.Name,
			CreatedAt: user.CreatedAt,
		}
		if err := s.events.PublishUserRegistered(event); err != nil {
			s.log.Warn("failed to publish user.registered event", sl.Err(err))
		}
	}

	return &user, nil
}

// RegisterSuperuser создает суперпользователя: как Register, но с
// выставленными флагами is_staff и is_superuser.
func (s *AuthService) RegisterSuperuser(ctx context.Context, email, rawPassword string) (*models.User, error) {
	const op = "auth.RegisterSuperuser"

	normalized, err := emailaddr.Normalize(email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user := models.User{
		Email:        normalized,
		PasswordHash: hashed,
		IsActive:     true,
		IsStaff:      true,
		IsSuperuser:  true,
	}
	uid, err := s.users.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	user.UID = uid

	s.log.Info("superuser registered", slog.String("uid", uid))
	return &user, nil
}

// Login проверяет учётные данные и возвращает ключ токена. Неизвестный email
// и неверный пароль дают одинаковую ошибку. Повторный вход возвращает тот же
// ключ: новый ключ используется только при первой выдаче.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (string, error) {
	const op = "auth.Login"

	normalized, err := emailaddr.Normalize(email)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	user, err := s.users.GetUserByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", ErrInvalidCredentials
	}

	newKey, err := token.GenerateKey()
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	key, err := s.users.GetOrCreateToken(ctx, user.UID, newKey)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("token issued", slog.String("uid", user.UID))
	return key, nil
}

// Authenticate находит владельца токена по ключу. Сначала проверяется кеш,
// затем база. Для деактивированного владельца токен недействителен.
func (s *AuthService) Authenticate(ctx context.Context, key string) (*models.User, error) {
	const op = "auth.Authenticate"

	cacheKey := "token:" + key
	if s.cache != nil {
		var identity cachedIdentity
		found, err := s.cache.Get(cacheKey, &identity)
		if err != nil {
			s.log.Warn("token cache lookup failed", sl.Err(err))
		}
		if found {
			if !identity.IsActive {
				return nil, ErrInactiveUser
			}
			return &models.User{
				UID:      identity.UID,
				Email:    identity.Email,
				IsActive: identity.IsActive,
			}, nil
		}
	}

	user, err := s.users.GetUserByTokenKey(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrTokenNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}

	if s.cache != nil {
		identity := cachedIdentity{UID: user.UID, Email: user.Email, IsActive: user.IsActive}
		if err := s.cache.Set(cacheKey, identity, tokenCacheTTL); err != nil {
			s.log.Warn("failed to cache token identity", sl.Err(err))
		}
	}

	return user, nil
}
