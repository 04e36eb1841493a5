package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/yamdb/internal/models"
	"github.com/magabrotheeeer/yamdb/internal/storage"
)

// Taxonomy хранилище справочника из пар имя/слаг: категорий или жанров.
// Таблицы справочников устроены одинаково и различаются только именем.
type Taxonomy[T any] struct {
	db    *sql.DB
	table string
	build func(id int64, ns models.NameSlug) T
}

// Categories хранилище категорий.
func (s *Storage) Categories() *Taxonomy[models.Category] {
	return &Taxonomy[models.Category]{
		db:    s.DB,
		table: "categories",
		build: func(id int64, ns models.NameSlug) models.Category {
			return models.Category{ID: id, NameSlug: ns}
		},
	}
}

// Genres хранилище жанров.
func (s *Storage) Genres() *Taxonomy[models.Genre] {
	return &Taxonomy[models.Genre]{
		db:    s.DB,
		table: "genres",
		build: func(id int64, ns models.NameSlug) models.Genre {
			return models.Genre{ID: id, NameSlug: ns}
		},
	}
}

func (t *Taxonomy[T]) scan(row rowScanner) (T, error) {
	var (
		id int64
		ns models.NameSlug
	)
	if err := row.Scan(&id, &ns.Name, &ns.Slug); err != nil {
		var zero T
		return zero, err
	}
	return t.build(id, ns), nil
}

func slugConflict(err error) error {
	if _, ok := uniqueViolation(err); ok {
		return storage.ErrSlugExists
	}
	return err
}

// List возвращает страницу записей, отсортированных по имени. search ищет по вхождению в имя.
func (t *Taxonomy[T]) List(ctx context.Context, search string, page models.Page) ([]T, int, error) {
	op := "storage." + t.table + ".List"
	if err := ctxDone(ctx, op); err != nil {
		return nil, 0, err
	}

	where := ``
	args := []any{}
	if search != "" {
		where = ` WHERE name ILIKE $1`
		args = append(args, "%"+escapeLike(search)+"%")
	}

	var count int
	if err := t.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+t.table+where, args...).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	query := fmt.Sprintf(`SELECT id, name, slug FROM %s%s ORDER BY name, id LIMIT $%d OFFSET $%d`,
		t.table, where, len(args)+1, len(args)+2)
	rows, err := t.db.QueryContext(ctx, query, append(args, page.Limit, page.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]T, 0, page.Limit)
	for rows.Next() {
		item, err := t.scan(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return result, count, nil
}

// Create добавляет запись. Занятый слаг даёт storage.ErrSlugExists.
func (t *Taxonomy[T]) Create(ctx context.Context, ns models.NameSlug) (T, error) {
	op := "storage." + t.table + ".Create"
	var zero T
	if err := ctxDone(ctx, op); err != nil {
		return zero, err
	}

	query := `INSERT INTO ` + t.table + ` (name, slug) VALUES ($1, $2) RETURNING id, name, slug`
	item, err := t.scan(t.db.QueryRowContext(ctx, query, ns.Name, ns.Slug))
	if err != nil {
		return zero, fmt.Errorf("%s: %w", op, slugConflict(err))
	}
	return item, nil
}

// Get возвращает запись по слагу.
func (t *Taxonomy[T]) Get(ctx context.Context, slug string) (T, error) {
	op := "storage." + t.table + ".Get"
	var zero T
	if err := ctxDone(ctx, op); err != nil {
		return zero, err
	}

	item, err := t.scan(t.db.QueryRowContext(ctx, `SELECT id, name, slug FROM `+t.table+` WHERE slug = $1`, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return zero, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if err != nil {
		return zero, fmt.Errorf("%s: %w", op, err)
	}
	return item, nil
}

// Update частично обновляет запись со слагом slug.
func (t *Taxonomy[T]) Update(ctx context.Context, slug string, patch models.NameSlugPatch) (T, error) {
	op := "storage." + t.table + ".Update"
	var zero T
	if err := ctxDone(ctx, op); err != nil {
		return zero, err
	}

	set := newSetBuilder()
	set.add("name", patch.Name)
	set.add("slug", patch.Slug)
	if set.empty() {
		return t.Get(ctx, slug)
	}

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE slug = $%d RETURNING id, name, slug`,
		t.table, set.clause(), set.next())
	item, err := t.scan(t.db.QueryRowContext(ctx, query, append(set.args, slug)...))
	if errors.Is(err, sql.ErrNoRows) {
		return zero, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if err != nil {
		return zero, fmt.Errorf("%s: %w", op, slugConflict(err))
	}
	return item, nil
}

// Delete удаляет запись по слагу.
// Произведения удалённой категории остаются без категории, связи с удалённым жанром исчезают.
func (t *Taxonomy[T]) Delete(ctx context.Context, slug string) error {
	op := "storage." + t.table + ".Delete"
	if err := ctxDone(ctx, op); err != nil {
		return err
	}

	result, err := t.db.ExecContext(ctx, `DELETE FROM `+t.table+` WHERE slug = $1`, slug)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return affected(op, result)
}
