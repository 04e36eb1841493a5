// Package services объединяет бизнес-логику API. Общие ошибки бизнес-уровня
// объявлены здесь, сами сервисы лежат во вложенных пакетах.
package services

import (
	"errors"
	"sort"
	"strings"
)

// ErrInvalidCode код подтверждения не совпал или истёк.
var ErrInvalidCode = errors.New("invalid confirmation code")

// ValidationError ошибка входных данных с сообщениями по полям.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError создаёт ошибку с одним полем.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// Add добавляет сообщение для поля.
func (e *ValidationError) Add(field, msg string) *ValidationError {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = msg
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// AsValidation проверяет, что err является ошибкой валидации.
func AsValidation(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
