// Package secret реализует хеширование и проверку одноразовых секретов
// (кодов подтверждения). В хранилище попадает только bcrypt-хеш.
package secret

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrMismatch возвращается, если секрет не соответствует хешу.
var ErrMismatch = errors.New("secret does not match")

// Hash возвращает bcrypt-хеш секрета.
func Hash(value string) (string, error) {
	const op = "secret.Hash"
	hashed, err := bcrypt.GenerateFromPassword([]byte(value), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// Compare сравнивает bcrypt-хеш с предъявленным значением.
//
// Возвращает nil при совпадении, ErrMismatch при несовпадении
// и обёрнутую ошибку, если хеш повреждён.
func Compare(hash, value string) error {
	const op = "secret.Compare"
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(value))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrMismatch
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
