package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/yamdb/internal/models"
	"github.com/magabrotheeeer/yamdb/internal/storage"
)

const reviewSelect = `SELECT r.id, r.title_id, r.author_id, u.username, r.score, r.text, r.pub_date
			  FROM reviews r
			  JOIN users u ON u.id = r.author_id`

func scanReview(row rowScanner) (*models.Review, error) {
	var r models.Review
	if err := row.Scan(&r.ID, &r.TitleID, &r.AuthorID, &r.Author, &r.Score, &r.Text, &r.PubDate); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Storage) titleExists(ctx context.Context, titleID int64) error {
	var exists bool
	if err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM titles WHERE id = $1)`, titleID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return storage.ErrNotFound
	}
	return nil
}

// ListReviews возвращает страницу отзывов произведения, новые сначала.
func (s *Storage) ListReviews(ctx context.Context, titleID int64, page models.Page) ([]models.Review, int, error) {
	const op = "storage.ListReviews"
	if err := ctxDone(ctx, op); err != nil {
		return nil, 0, err
	}
	if err := s.titleExists(ctx, titleID); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	var count int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM reviews WHERE title_id = $1`, titleID).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := s.DB.QueryContext(ctx, reviewSelect+` WHERE r.title_id = $1
			  ORDER BY r.pub_date DESC, r.id DESC LIMIT $2 OFFSET $3`, titleID, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.Review, 0, page.Limit)
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *r)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return result, count, nil
}

// GetReview возвращает отзыв, если он относится к произведению titleID.
func (s *Storage) GetReview(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	const op = "storage.GetReview"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	r, err := scanReview(s.DB.QueryRowContext(ctx, reviewSelect+` WHERE r.id = $1 AND r.title_id = $2`, reviewID, titleID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return r, nil
}

// CreateReview сохраняет отзыв. Повторный отзыв автора на то же произведение даёт storage.ErrReviewExists.
func (s *Storage) CreateReview(ctx context.Context, review models.Review) (*models.Review, error) {
	const op = "storage.CreateReview"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	var id int64
	err := s.DB.QueryRowContext(ctx, `INSERT INTO reviews (title_id, author_id, text, score)
			  VALUES ($1, $2, $3, $4) RETURNING id`,
		review.TitleID, review.AuthorID, review.Text, review.Score).Scan(&id)
	if err != nil {
		switch {
		case foreignKeyViolation(err):
			err = storage.ErrNotFound
		default:
			if _, ok := uniqueViolation(err); ok {
				err = storage.ErrReviewExists
			}
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.GetReview(ctx, review.TitleID, id)
}

// UpdateReview частично обновляет отзыв.
func (s *Storage) UpdateReview(ctx context.Context, titleID, reviewID int64, patch models.ReviewPatch) (*models.Review, error) {
	const op = "storage.UpdateReview"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	set := newSetBuilder()
	set.add("text", patch.Text)
	set.addInt("score", patch.Score)
	if set.empty() {
		return s.GetReview(ctx, titleID, reviewID)
	}

	query := fmt.Sprintf(`UPDATE reviews SET %s WHERE id = $%d AND title_id = $%d`,
		set.clause(), set.next(), set.next()+1)
	result, err := s.DB.ExecContext(ctx, query, append(set.args, reviewID, titleID)...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = affected(op, result); err != nil {
		return nil, err
	}
	return s.GetReview(ctx, titleID, reviewID)
}

// DeleteReview удаляет отзыв вместе с комментариями.
func (s *Storage) DeleteReview(ctx context.Context, titleID, reviewID int64) error {
	const op = "storage.DeleteReview"
	if err := ctxDone(ctx, op); err != nil {
		return err
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1 AND title_id = $2`, reviewID, titleID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return affected(op, result)
}
