package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/yamdb/internal/models"
	"github.com/magabrotheeeer/yamdb/internal/storage"
)

// querier общий интерфейс *sql.DB и *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Рейтинг считается в том же запросе, что и выборка, только по отзывам своего произведения.
// Дробная часть среднего отбрасывается.
const titleSelect = `SELECT t.id, t.name, t.year, t.description,
			      TRUNC(AVG(r.score))::int AS rating, c.name, c.slug
			  FROM titles t
			  LEFT JOIN reviews r ON r.title_id = t.id
			  LEFT JOIN categories c ON c.id = t.category_id`

const titleGroupOrder = ` GROUP BY t.id, c.id ORDER BY t.year DESC, t.name, t.id`

func scanTitle(row rowScanner) (models.Title, error) {
	var (
		t            models.Title
		rating       sql.NullInt64
		catName, cat sql.NullString
	)
	if err := row.Scan(&t.ID, &t.Name, &t.Year, &t.Description, &rating, &catName, &cat); err != nil {
		return t, err
	}
	if rating.Valid {
		r := int(rating.Int64)
		t.Rating = &r
	}
	if cat.Valid {
		t.Category = &models.NameSlug{Name: catName.String, Slug: cat.String}
	}
	t.Genre = []models.NameSlug{}
	return t, nil
}

func titleWhere(f models.TitleFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.Genre != "" {
		args = append(args, f.Genre)
		conds = append(conds, fmt.Sprintf(`EXISTS (
				SELECT 1 FROM genre_title gt JOIN genres g ON g.id = gt.genre_id
				WHERE gt.title_id = t.id AND g.slug = $%d)`, len(args)))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		conds = append(conds, fmt.Sprintf(`t.category_id = (SELECT id FROM categories WHERE slug = $%d)`, len(args)))
	}
	if f.Year != nil {
		args = append(args, *f.Year)
		conds = append(conds, fmt.Sprintf(`t.year = $%d`, len(args)))
	}
	if f.Name != "" {
		args = append(args, "%"+escapeLike(f.Name)+"%")
		conds = append(conds, fmt.Sprintf(`t.name ILIKE $%d`, len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// loadGenres заполняет жанры у переданных произведений одним запросом.
func loadGenres(ctx context.Context, q querier, titles []models.Title) error {
	if len(titles) == 0 {
		return nil
	}
	ids := make([]int64, len(titles))
	index := make(map[int64]int, len(titles))
	for i, t := range titles {
		ids[i] = t.ID
		index[t.ID] = i
	}

	rows, err := q.QueryContext(ctx, `SELECT gt.title_id, g.name, g.slug
			  FROM genre_title gt
			  JOIN genres g ON g.id = gt.genre_id
			  WHERE gt.title_id = ANY($1)
			  ORDER BY g.name, g.id`, ids)
	if err != nil {
		return err
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var (
			titleID int64
			ns      models.NameSlug
		)
		if err = rows.Scan(&titleID, &ns.Name, &ns.Slug); err != nil {
			return err
		}
		i := index[titleID]
		titles[i].Genre = append(titles[i].Genre, ns)
	}
	return rows.Err()
}

// ListTitles возвращает страницу произведений с рейтингом, отобранных по фильтру.
func (s *Storage) ListTitles(ctx context.Context, filter models.TitleFilter, page models.Page) ([]models.Title, int, error) {
	const op = "storage.ListTitles"
	if err := ctxDone(ctx, op); err != nil {
		return nil, 0, err
	}

	where, args := titleWhere(filter)

	var count int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM titles t`+where, args...).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	query := fmt.Sprintf(`%s%s%s LIMIT $%d OFFSET $%d`,
		titleSelect, where, titleGroupOrder, len(args)+1, len(args)+2)
	rows, err := s.DB.QueryContext(ctx, query, append(args, page.Limit, page.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.Title, 0, page.Limit)
	for rows.Next() {
		t, err := scanTitle(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, t)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	if err = loadGenres(ctx, s.DB, result); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return result, count, nil
}

// GetTitle возвращает произведение с рейтингом, категорией и жанрами.
func (s *Storage) GetTitle(ctx context.Context, id int64) (*models.Title, error) {
	const op = "storage.GetTitle"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	t, err := scanTitle(s.DB.QueryRowContext(ctx, titleSelect+` WHERE t.id = $1`+titleGroupOrder, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	titles := []models.Title{t}
	if err = loadGenres(ctx, s.DB, titles); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &titles[0], nil
}

// CreateTitle создаёт произведение и связи с жанрами в одной транзакции.
// Неизвестный слаг категории или жанра даёт storage.ErrUnknownSlug.
func (s *Storage) CreateTitle(ctx context.Context, in models.TitleInput) (*models.Title, error) {
	const op = "storage.CreateTitle"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	var id int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		categoryID, err := resolveCategory(ctx, tx, in.Category)
		if err != nil {
			return err
		}
		err = tx.QueryRowContext(ctx, `INSERT INTO titles (name, year, description, category_id)
			  VALUES ($1, $2, $3, $4) RETURNING id`,
			in.Name, in.Year, in.Description, categoryID).Scan(&id)
		if err != nil {
			return err
		}
		return setGenres(ctx, tx, id, in.Genre)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.GetTitle(ctx, id)
}

// UpdateTitle частично обновляет произведение. Переданный список жанров заменяет прежний целиком.
func (s *Storage) UpdateTitle(ctx context.Context, id int64, patch models.TitlePatch) (*models.Title, error) {
	const op = "storage.UpdateTitle"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var locked int64
		err := tx.QueryRowContext(ctx, `SELECT id FROM titles WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}

		set := newSetBuilder()
		set.add("name", patch.Name)
		set.addInt("year", patch.Year)
		set.add("description", patch.Description)
		if patch.Category != nil {
			categoryID, err := resolveCategory(ctx, tx, patch.Category)
			if err != nil {
				return err
			}
			addValue(set, "category_id", &categoryID)
		}
		if !set.empty() {
			query := fmt.Sprintf(`UPDATE titles SET %s WHERE id = $%d`, set.clause(), set.next())
			if _, err = tx.ExecContext(ctx, query, append(set.args, id)...); err != nil {
				return err
			}
		}

		if patch.Genre != nil {
			return setGenres(ctx, tx, id, *patch.Genre)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.GetTitle(ctx, id)
}

// DeleteTitle удаляет произведение вместе с отзывами и комментариями к ним.
func (s *Storage) DeleteTitle(ctx context.Context, id int64) error {
	const op = "storage.DeleteTitle"
	if err := ctxDone(ctx, op); err != nil {
		return err
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM titles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return affected(op, result)
}

func resolveCategory(ctx context.Context, q querier, slug *string) (sql.NullInt64, error) {
	if slug == nil || *slug == "" {
		return sql.NullInt64{}, nil
	}
	var id int64
	err := q.QueryRowContext(ctx, `SELECT id FROM categories WHERE slug = $1`, *slug).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return sql.NullInt64{}, &storage.UnknownSlugError{Field: "category", Slug: *slug}
	}
	if err != nil {
		return sql.NullInt64{}, err
	}
	return sql.NullInt64{Int64: id, Valid: true}, nil
}

func setGenres(ctx context.Context, q querier, titleID int64, slugs []string) error {
	unique := make([]string, 0, len(slugs))
	seen := make(map[string]struct{}, len(slugs))
	for _, slug := range slugs {
		if _, ok := seen[slug]; ok {
			continue
		}
		seen[slug] = struct{}{}
		unique = append(unique, slug)
	}

	if _, err := q.ExecContext(ctx, `DELETE FROM genre_title WHERE title_id = $1`, titleID); err != nil {
		return err
	}
	if len(unique) == 0 {
		return nil
	}

	result, err := q.ExecContext(ctx, `INSERT INTO genre_title (title_id, genre_id)
			  SELECT $1, id FROM genres WHERE slug = ANY($2)`, titleID, unique)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if int(n) != len(unique) {
		return &storage.UnknownSlugError{Field: "genre"}
	}
	return nil
}
