package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/yamdb/internal/models"
	"github.com/magabrotheeeer/yamdb/internal/storage"
)

const commentSelect = `SELECT c.id, c.review_id, c.author_id, u.username, c.text, c.pub_date
			  FROM comments c
			  JOIN reviews r ON r.id = c.review_id
			  JOIN users u ON u.id = c.author_id`

func scanComment(row rowScanner) (*models.Comment, error) {
	var c models.Comment
	if err := row.Scan(&c.ID, &c.ReviewID, &c.AuthorID, &c.Author, &c.Text, &c.PubDate); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Storage) reviewExists(ctx context.Context, titleID, reviewID int64) error {
	var exists bool
	err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM reviews WHERE id = $1 AND title_id = $2)`, reviewID, titleID).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return storage.ErrNotFound
	}
	return nil
}

// ListComments возвращает страницу комментариев к отзыву, новые сначала.
func (s *Storage) ListComments(ctx context.Context, titleID, reviewID int64, page models.Page) ([]models.Comment, int, error) {
	const op = "storage.ListComments"
	if err := ctxDone(ctx, op); err != nil {
		return nil, 0, err
	}
	if err := s.reviewExists(ctx, titleID, reviewID); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	var count int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM comments WHERE review_id = $1`, reviewID).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := s.DB.QueryContext(ctx, commentSelect+` WHERE c.review_id = $1 AND r.title_id = $2
			  ORDER BY c.pub_date DESC, c.id DESC LIMIT $3 OFFSET $4`, reviewID, titleID, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.Comment, 0, page.Limit)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *c)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return result, count, nil
}

// GetComment возвращает комментарий, если его отзыв относится к произведению titleID.
func (s *Storage) GetComment(ctx context.Context, titleID, reviewID, commentID int64) (*models.Comment, error) {
	const op = "storage.GetComment"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	c, err := scanComment(s.DB.QueryRowContext(ctx, commentSelect+`
			  WHERE c.id = $1 AND c.review_id = $2 AND r.title_id = $3`, commentID, reviewID, titleID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// CreateComment сохраняет комментарий к отзыву произведения titleID.
func (s *Storage) CreateComment(ctx context.Context, titleID int64, comment models.Comment) (*models.Comment, error) {
	const op = "storage.CreateComment"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}
	if err := s.reviewExists(ctx, titleID, comment.ReviewID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var id int64
	err := s.DB.QueryRowContext(ctx, `INSERT INTO comments (review_id, author_id, text)
			  VALUES ($1, $2, $3) RETURNING id`,
		comment.ReviewID, comment.AuthorID, comment.Text).Scan(&id)
	if err != nil {
		if foreignKeyViolation(err) {
			err = storage.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.GetComment(ctx, titleID, comment.ReviewID, id)
}

// UpdateComment меняет текст комментария.
func (s *Storage) UpdateComment(ctx context.Context, titleID, reviewID, commentID int64, text *string) (*models.Comment, error) {
	const op = "storage.UpdateComment"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}
	if text == nil {
		return s.GetComment(ctx, titleID, reviewID, commentID)
	}

	result, err := s.DB.ExecContext(ctx, `UPDATE comments c SET text = $1
			  FROM reviews r
			  WHERE c.id = $2 AND c.review_id = $3 AND r.id = c.review_id AND r.title_id = $4`,
		*text, commentID, reviewID, titleID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = affected(op, result); err != nil {
		return nil, err
	}
	return s.GetComment(ctx, titleID, reviewID, commentID)
}

// DeleteComment удаляет комментарий.
func (s *Storage) DeleteComment(ctx context.Context, titleID, reviewID, commentID int64) error {
	const op = "storage.DeleteComment"
	if err := ctxDone(ctx, op); err != nil {
		return err
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM comments c
			  USING reviews r
			  WHERE c.id = $1 AND c.review_id = $2 AND r.id = c.review_id AND r.title_id = $3`,
		commentID, reviewID, titleID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return affected(op, result)
}
