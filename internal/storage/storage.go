// Package storage объявляет ошибки слоя хранения, общие для всех реализаций репозитория.
package storage

import "errors"

var (
	// ErrNotFound запись не найдена.
	ErrNotFound = errors.New("not found")
	// ErrUserExists имя пользователя уже занято.
	ErrUserExists = errors.New("user with this username already exists")
	// ErrEmailExists email уже занят.
	ErrEmailExists = errors.New("user with this email already exists")
	// ErrSlugExists слаг категории или жанра уже занят.
	ErrSlugExists = errors.New("object with this slug already exists")
	// ErrReviewExists автор уже оставил отзыв на это произведение.
	ErrReviewExists = errors.New("review for this title already exists")
	// ErrUnknownSlug в запросе указан несуществующий слаг категории или жанра.
	ErrUnknownSlug = errors.New("object with this slug does not exist")
)

// UnknownSlugError ссылка на несуществующую категорию или жанр.
// Field имя поля запроса, в котором пришёл слаг.
type UnknownSlugError struct {
	Field string
	Slug  string
}

func (e *UnknownSlugError) Error() string {
	if e.Slug == "" {
		return e.Field + ": " + ErrUnknownSlug.Error()
	}
	return e.Field + " " + e.Slug + ": " + ErrUnknownSlug.Error()
}

func (e *UnknownSlugError) Unwrap() error {
	return ErrUnknownSlug
}
