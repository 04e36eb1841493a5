package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/yamdb/internal/models"
	"github.com/magabrotheeeer/yamdb/internal/services"
	"github.com/magabrotheeeer/yamdb/internal/storage"
)

// TitleRepository хранилище произведений.
type TitleRepository interface {
	ListTitles(ctx context.Context, filter models.TitleFilter, page models.Page) ([]models.Title, int, error)
	GetTitle(ctx context.Context, id int64) (*models.Title, error)
	CreateTitle(ctx context.Context, in models.TitleInput) (*models.Title, error)
	UpdateTitle(ctx context.Context, id int64, patch models.TitlePatch) (*models.Title, error)
	DeleteTitle(ctx context.Context, id int64) error
}

// TitleService операции над произведениями.
type TitleService struct {
	repo TitleRepository
}

// NewTitleService создаёт сервис произведений.
func NewTitleService(repo TitleRepository) *TitleService {
	return &TitleService{repo: repo}
}

func unknownSlug(err error) error {
	var slugErr *storage.UnknownSlugError
	if errors.As(err, &slugErr) {
		return services.NewValidationError(slugErr.Field, slugErr.Error())
	}
	return err
}

// List страница произведений по фильтру.
func (s *TitleService) List(ctx context.Context, filter models.TitleFilter, page models.Page) (models.List[models.Title], error) {
	const op = "catalog.ListTitles"
	items, count, err := s.repo.ListTitles(ctx, filter, page)
	if err != nil {
		return models.List[models.Title]{}, fmt.Errorf("%s: %w", op, err)
	}
	return models.List[models.Title]{Count: count, Results: items}, nil
}

// Get произведение по ID.
func (s *TitleService) Get(ctx context.Context, id int64) (*models.Title, error) {
	const op = "catalog.GetTitle"
	t, err := s.repo.GetTitle(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

// Create создаёт произведение. Неизвестные слаги дают services.ValidationError.
func (s *TitleService) Create(ctx context.Context, in models.TitleInput) (*models.Title, error) {
	const op = "catalog.CreateTitle"
	t, err := s.repo.CreateTitle(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, unknownSlug(err))
	}
	return t, nil
}

// Update частичное обновление произведения.
func (s *TitleService) Update(ctx context.Context, id int64, patch models.TitlePatch) (*models.Title, error) {
	const op = "catalog.UpdateTitle"
	t, err := s.repo.UpdateTitle(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, unknownSlug(err))
	}
	return t, nil
}

// Delete удаляет произведение.
func (s *TitleService) Delete(ctx context.Context, id int64) error {
	const op = "catalog.DeleteTitle"
	if err := s.repo.DeleteTitle(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
