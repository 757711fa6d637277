// Package services содержит бизнес-логику чтения и частичного обновления
// профиля аутентифицированного пользователя.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/user-auth-service/internal/lib/password"
	"github.com/magabrotheeeer/user-auth-service/internal/models"
)

// ProfileRepository определяет методы для работы с профилем в хранилище.
type ProfileRepository interface {
	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// UpdateUserProfile частично обновляет профиль в транзакции.
	UpdateUserProfile(ctx context.Context, userUID string, name, passwordHash *string) (*models.User, error)
}

// UpdateRequest — набор изменяемых полей профиля.
// nil означает «поле не менять».
type UpdateRequest struct {
	Name     *string
	Password *string
}

// ProfileService реализует чтение и частичное обновление профиля.
type ProfileService struct {
	repo ProfileRepository
	log  *slog.Logger
}

// NewProfileService создает новый экземпляр ProfileService.
func NewProfileService(repo ProfileRepository, log *slog.Logger) *ProfileService {
	return &ProfileService{
		repo: repo,
		log:  log,
	}
}

// Get возвращает публичный профиль пользователя. Хэш пароля наружу не отдаётся.
func (s *ProfileService) Get(ctx context.Context, userUID string) (*models.Profile, error) {
	const op = "profile.Get"

	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &models.Profile{
		Name:  user.Name,
		Email: user.Email,
	}, nil
}

// Update частично обновляет профиль: меняются только переданные поля.
// Новый пароль перед сохранением хэшируется.
func (s *ProfileService) Update(ctx context.Context, userUID string, req UpdateRequest) (*models.Profile, error) {
	const op = "profile.Update"

	var passwordHash *string
	if req.Password != nil {
		hashed, err := password.GetHash(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		passwordHash = &hashed
	}

	user, err := s.repo.UpdateUserProfile(ctx, userUID, req.Name, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("profile updated", slog.String("uid", userUID))
	return &models.Profile{
		Name:  user.Name,
		Email: user.Email,
	}, nil
}
