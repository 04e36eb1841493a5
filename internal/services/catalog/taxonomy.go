// Package catalog справочники категорий и жанров и сами произведения.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/yamdb/internal/models"
	"github.com/magabrotheeeer/yamdb/internal/services"
	"github.com/magabrotheeeer/yamdb/internal/storage"
)

// TaxonomyRepository хранилище справочника категорий или жанров.
type TaxonomyRepository[T any] interface {
	List(ctx context.Context, search string, page models.Page) ([]T, int, error)
	Create(ctx context.Context, ns models.NameSlug) (T, error)
	Get(ctx context.Context, slug string) (T, error)
	Update(ctx context.Context, slug string, patch models.NameSlugPatch) (T, error)
	Delete(ctx context.Context, slug string) error
}

// TaxonomyService операции над справочником.
type TaxonomyService[T any] struct {
	name string
	repo TaxonomyRepository[T]
}

// NewTaxonomyService создаёт сервис справочника. name попадает в op ошибок.
func NewTaxonomyService[T any](name string, repo TaxonomyRepository[T]) *TaxonomyService[T] {
	return &TaxonomyService[T]{name: name, repo: repo}
}

func slugConflict(err error) error {
	if errors.Is(err, storage.ErrSlugExists) {
		return services.NewValidationError("slug", storage.ErrSlugExists.Error())
	}
	return err
}

// List страница записей с поиском по имени.
func (s *TaxonomyService[T]) List(ctx context.Context, search string, page models.Page) (models.List[T], error) {
	op := "catalog." + s.name + ".List"
	items, count, err := s.repo.List(ctx, search, page)
	if err != nil {
		return models.List[T]{}, fmt.Errorf("%s: %w", op, err)
	}
	return models.List[T]{Count: count, Results: items}, nil
}

// Create добавляет запись. Занятый слаг даёт services.ValidationError.
func (s *TaxonomyService[T]) Create(ctx context.Context, ns models.NameSlug) (T, error) {
	op := "catalog." + s.name + ".Create"
	item, err := s.repo.Create(ctx, ns)
	if err != nil {
		return item, fmt.Errorf("%s: %w", op, slugConflict(err))
	}
	return item, nil
}

// Get запись по слагу.
func (s *TaxonomyService[T]) Get(ctx context.Context, slug string) (T, error) {
	op := "catalog." + s.name + ".Get"
	item, err := s.repo.Get(ctx, slug)
	if err != nil {
		return item, fmt.Errorf("%s: %w", op, err)
	}
	return item, nil
}

// Update частичное обновление записи.
func (s *TaxonomyService[T]) Update(ctx context.Context, slug string, patch models.NameSlugPatch) (T, error) {
	op := "catalog." + s.name + ".Update"
	item, err := s.repo.Update(ctx, slug, patch)
	if err != nil {
		return item, fmt.Errorf("%s: %w", op, slugConflict(err))
	}
	return item, nil
}

// Delete удаляет запись.
func (s *TaxonomyService[T]) Delete(ctx context.Context, slug string) error {
	op := "catalog." + s.name + ".Delete"
	if err := s.repo.Delete(ctx, slug); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
