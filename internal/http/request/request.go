// Package request разбирает входные данные HTTP-запроса: тело JSON,
// параметры пути и пагинацию.
package request

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/yamdb/internal/models"
	"github.com/magabrotheeeer/yamdb/internal/storage"
)

// ErrEmptyBody тело запроса отсутствует.
var ErrEmptyBody = errors.New("request body is empty")

// Decode читает JSON из тела запроса в dst.
func Decode(r *http.Request, dst any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return ErrEmptyBody
	}
	if err := render.DecodeJSON(r.Body, dst); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

// ID читает числовой идентификатор из пути. Нечисловой идентификатор
// означает несуществующий объект.
func ID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("param %s: %w", name, storage.ErrNotFound)
	}
	return id, nil
}

// Page собирает окно выборки из ?limit= и ?offset=. Некорректные значения
// заменяются значениями по умолчанию.
func Page(r *http.Request) models.Page {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	return models.NewPage(limit, offset)
}

// Search строка поиска из ?search=.
func Search(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get("search"))
}
