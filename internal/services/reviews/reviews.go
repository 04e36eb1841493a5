// Package reviews отзывы на произведения и комментарии к ним.
//
// Читать может кто угодно, писать только вошедшие пользователи. Менять и удалять
// чужие отзывы и комментарии могут модераторы и администраторы.
package reviews

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/magabrotheeeer/yamdb/internal/models"
	"github.com/magabrotheeeer/yamdb/internal/permissions"
	"github.com/magabrotheeeer/yamdb/internal/services"
	"github.com/magabrotheeeer/yamdb/internal/storage"
)

// Repository хранилище отзывов и комментариев.
type Repository interface {
	ListReviews(ctx context.Context, titleID int64, page models.Page) ([]models.Review, int, error)
	GetReview(ctx context.Context, titleID, reviewID int64) (*models.Review, error)
	CreateReview(ctx context.Context, review models.Review) (*models.Review, error)
	UpdateReview(ctx context.Context, titleID, reviewID int64, patch models.ReviewPatch) (*models.Review, error)
	DeleteReview(ctx context.Context, titleID, reviewID int64) error

	ListComments(ctx context.Context, titleID, reviewID int64, page models.Page) ([]models.Comment, int, error)
	GetComment(ctx context.Context, titleID, reviewID, commentID int64) (*models.Comment, error)
	CreateComment(ctx context.Context, titleID int64, comment models.Comment) (*models.Comment, error)
	UpdateComment(ctx context.Context, titleID, reviewID, commentID int64, text *string) (*models.Comment, error)
	DeleteComment(ctx context.Context, titleID, reviewID, commentID int64) error
}

// Service бизнес-логика отзывов и комментариев.
type Service struct {
	repo Repository
}

// New создаёт сервис.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListReviews страница отзывов произведения.
func (s *Service) ListReviews(ctx context.Context, titleID int64, page models.Page) (models.List[models.Review], error) {
	const op = "reviews.ListReviews"
	items, count, err := s.repo.ListReviews(ctx, titleID, page)
	if err != nil {
		return models.List[models.Review]{}, fmt.Errorf("%s: %w", op, err)
	}
	return models.List[models.Review]{Count: count, Results: items}, nil
}

// GetReview отзыв произведения.
func (s *Service) GetReview(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	const op = "reviews.GetReview"
	r, err := s.repo.GetReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return r, nil
}

// CreateReview публикует отзыв от имени actor. Второй отзыв на то же произведение запрещён.
func (s *Service) CreateReview(ctx context.Context, actor *models.User, titleID int64, text string, score int) (*models.Review, error) {
	const op = "reviews.CreateReview"
	if err := permissions.Allow(actor, http.MethodPost, permissions.Review); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	r, err := s.repo.CreateReview(ctx, models.Review{
		TitleID:  titleID,
		AuthorID: actor.ID,
		Score:    score,
		TextDate: models.TextDate{Text: text},
	})
	if errors.Is(err, storage.ErrReviewExists) {
		err = services.NewValidationError("title", "you have already reviewed this title")
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return r, nil
}

// UpdateReview изменяет отзыв, если actor автор, модератор или администратор.
func (s *Service) UpdateReview(ctx context.Context, actor *models.User, titleID, reviewID int64, patch models.ReviewPatch) (*models.Review, error) {
	const op = "reviews.UpdateReview"
	r, err := s.repo.GetReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = permissions.AllowObject(actor, http.MethodPatch, permissions.Review, r.AuthorID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	r, err = s.repo.UpdateReview(ctx, titleID, reviewID, patch)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return r, nil
}

// DeleteReview удаляет отзыв вместе с комментариями.
func (s *Service) DeleteReview(ctx context.Context, actor *models.User, titleID, reviewID int64) error {
	const op = "reviews.DeleteReview"
	r, err := s.repo.GetReview(ctx, titleID, reviewID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = permissions.AllowObject(actor, http.MethodDelete, permissions.Review, r.AuthorID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = s.repo.DeleteReview(ctx, titleID, reviewID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListComments страница комментариев к отзыву.
func (s *Service) ListComments(ctx context.Context, titleID, reviewID int64, page models.Page) (models.List[models.Comment], error) {
	const op = "reviews.ListComments"
	items, count, err := s.repo.ListComments(ctx, titleID, reviewID, page)
	if err != nil {
		return models.List[models.Comment]{}, fmt.Errorf("%s: %w", op, err)
	}
	return models.List[models.Comment]{Count: count, Results: items}, nil
}

// GetComment комментарий к отзыву.
func (s *Service) GetComment(ctx context.Context, titleID, reviewID, commentID int64) (*models.Comment, error) {
	const op = "reviews.GetComment"
	c, err := s.repo.GetComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// CreateComment публикует комментарий от имени actor.
func (s *Service) CreateComment(ctx context.Context, actor *models.User, titleID, reviewID int64, text string) (*models.Comment, error) {
	const op = "reviews.CreateComment"
	if err := permissions.Allow(actor, http.MethodPost, permissions.Comment); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c, err := s.repo.CreateComment(ctx, titleID, models.Comment{
		ReviewID: reviewID,
		AuthorID: actor.ID,
		TextDate: models.TextDate{Text: text},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// UpdateComment меняет текст комментария.
func (s *Service) UpdateComment(ctx context.Context, actor *models.User, titleID, reviewID, commentID int64, text *string) (*models.Comment, error) {
	const op = "reviews.UpdateComment"
	c, err := s.repo.GetComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = permissions.AllowObject(actor, http.MethodPatch, permissions.Comment, c.AuthorID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c, err = s.repo.UpdateComment(ctx, titleID, reviewID, commentID, text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// DeleteComment удаляет комментарий.
func (s *Service) DeleteComment(ctx context.Context, actor *models.User, titleID, reviewID, commentID int64) error {
	const op = "reviews.DeleteComment"
	c, err := s.repo.GetComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = permissions.AllowObject(actor, http.MethodDelete, permissions.Comment, c.AuthorID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = s.repo.DeleteComment(ctx, titleID, reviewID, commentID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
