package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/yamdb/internal/storage"
)

// setBuilder собирает SET-часть UPDATE из необязательных полей.
type setBuilder struct {
	parts []string
	args  []any
}

func newSetBuilder() *setBuilder {
	return &setBuilder{}
}

func addValue[T any](b *setBuilder, column string, value *T) {
	if value == nil {
		return
	}
	b.args = append(b.args, *value)
	b.parts = append(b.parts, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

func (b *setBuilder) add(column string, value *string) {
	addValue(b, column, value)
}

func (b *setBuilder) addInt(column string, value *int) {
	addValue(b, column, value)
}

func (b *setBuilder) empty() bool {
	return len(b.parts) == 0
}

func (b *setBuilder) clause() string {
	return strings.Join(b.parts, ", ")
}

// next номер следующего плейсхолдера.
func (b *setBuilder) next() int {
	return len(b.args) + 1
}

// affected возвращает storage.ErrNotFound, если запрос не затронул ни одной строки.
func affected(op string, result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
