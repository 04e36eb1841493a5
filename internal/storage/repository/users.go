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

const userColumns = `id, username, email, first_name, last_name, bio, role, is_superuser, date_joined`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName,
		&u.Bio, &u.Role, &u.IsSuperuser, &u.DateJoined); err != nil {
		return nil, err
	}
	return &u, nil
}

// userConflict переводит нарушение уникальности users в ошибку storage.
func userConflict(err error) error {
	constraint, ok := uniqueViolation(err)
	if !ok {
		return err
	}
	if strings.Contains(constraint, "email") {
		return storage.ErrEmailExists
	}
	return storage.ErrUserExists
}

// CreateUser сохраняет нового пользователя и возвращает его вместе с ID.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	const op = "storage.CreateUser"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}

	query := `INSERT INTO users (username, email, first_name, last_name, bio, role, is_superuser)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING ` + userColumns
	created, err := scanUser(s.DB.QueryRowContext(ctx, query,
		user.Username, user.Email, user.FirstName, user.LastName, user.Bio, user.Role, user.IsSuperuser))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, userConflict(err))
	}
	return created, nil
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByEmail возвращает пользователя по email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// ListUsers возвращает страницу пользователей, search ищет по вхождению в username.
func (s *Storage) ListUsers(ctx context.Context, search string, page models.Page) ([]models.User, int, error) {
	const op = "storage.ListUsers"
	if err := ctxDone(ctx, op); err != nil {
		return nil, 0, err
	}

	where := ``
	args := []any{}
	if search != "" {
		where = ` WHERE username ILIKE $1`
		args = append(args, "%"+escapeLike(search)+"%")
	}

	var count int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	query := fmt.Sprintf(`SELECT %s FROM users%s ORDER BY username LIMIT $%d OFFSET $%d`,
		userColumns, where, len(args)+1, len(args)+2)
	rows, err := s.DB.QueryContext(ctx, query, append(args, page.Limit, page.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.User, 0, page.Limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *u)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return result, count, nil
}

// UpdateUser частично обновляет пользователя и возвращает новое состояние.
func (s *Storage) UpdateUser(ctx context.Context, username string, patch models.UserPatch) (*models.User, error) {
	const op = "storage.UpdateUser"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	set := newSetBuilder()
	set.add("username", patch.Username)
	set.add("email", patch.Email)
	set.add("first_name", patch.FirstName)
	set.add("last_name", patch.LastName)
	set.add("bio", patch.Bio)
	set.add("role", patch.Role)
	if set.empty() {
		return s.GetUserByUsername(ctx, username)
	}

	query := fmt.Sprintf(`UPDATE users SET %s WHERE username = $%d RETURNING %s`,
		set.clause(), set.next(), userColumns)
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, append(set.args, username)...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, userConflict(err))
	}
	return u, nil
}

// DeleteUser удаляет пользователя вместе с его отзывами и комментариями.
func (s *Storage) DeleteUser(ctx context.Context, username string) error {
	const op = "storage.DeleteUser"
	if err := ctxDone(ctx, op); err != nil {
		return err
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM users WHERE username = $1`, username)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return affected(op, result)
}
