// Package users управление учётными записями: администрирование и собственный профиль.
package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/yamdb/internal/models"
	"github.com/magabrotheeeer/yamdb/internal/permissions"
	"github.com/magabrotheeeer/yamdb/internal/services"
	"github.com/magabrotheeeer/yamdb/internal/storage"
)

// Repository операции хранилища над пользователями.
type Repository interface {
	ListUsers(ctx context.Context, search string, page models.Page) ([]models.User, int, error)
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateUser(ctx context.Context, username string, patch models.UserPatch) (*models.User, error)
	DeleteUser(ctx context.Context, username string) error
}

// Service бизнес-логика пользователей.
type Service struct {
	repo Repository
}

// New создаёт сервис пользователей.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// conflict переводит нарушения уникальности в ошибку валидации поля.
func conflict(err error) error {
	switch {
	case errors.Is(err, storage.ErrUserExists):
		return services.NewValidationError("username", storage.ErrUserExists.Error())
	case errors.Is(err, storage.ErrEmailExists):
		return services.NewValidationError("email", storage.ErrEmailExists.Error())
	}
	return err
}

// List страница пользователей с поиском по username.
func (s *Service) List(ctx context.Context, search string, page models.Page) (models.List[models.User], error) {
	const op = "users.List"
	items, count, err := s.repo.ListUsers(ctx, search, page)
	if err != nil {
		return models.List[models.User]{}, fmt.Errorf("%s: %w", op, err)
	}
	return models.List[models.User]{Count: count, Results: items}, nil
}

// Create создаёт пользователя от имени администратора. Пустая роль становится user.
func (s *Service) Create(ctx context.Context, user models.User) (*models.User, error) {
	const op = "users.Create"
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	created, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, conflict(err))
	}
	return created, nil
}

// Get пользователь по username.
func (s *Service) Get(ctx context.Context, username string) (*models.User, error) {
	const op = "users.Get"
	u, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// Update частичное обновление пользователя администратором.
func (s *Service) Update(ctx context.Context, username string, patch models.UserPatch) (*models.User, error) {
	const op = "users.Update"
	u, err := s.repo.UpdateUser(ctx, username, patch)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, conflict(err))
	}
	return u, nil
}

// Delete удаляет пользователя.
func (s *Service) Delete(ctx context.Context, username string) error {
	const op = "users.Delete"
	if err := s.repo.DeleteUser(ctx, username); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Me профиль текущего пользователя.
func (s *Service) Me(ctx context.Context, actor *models.User) (*models.User, error) {
	const op = "users.Me"
	if actor == nil {
		return nil, fmt.Errorf("%s: %w", op, permissions.ErrUnauthenticated)
	}
	return s.Get(ctx, actor.Username)
}

// UpdateMe обновляет собственный профиль. Роль меняет только администратор,
// у остальных присланная роль молча отбрасывается.
func (s *Service) UpdateMe(ctx context.Context, actor *models.User, patch models.UserPatch) (*models.User, error) {
	const op = "users.UpdateMe"
	if actor == nil {
		return nil, fmt.Errorf("%s: %w", op, permissions.ErrUnauthenticated)
	}
	if !permissions.CanChangeRole(actor) {
		patch.Role = nil
	}
	return s.Update(ctx, actor.Username, patch)
}
