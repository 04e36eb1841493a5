// Package jwt реализует генерацию и парсинг JWT токенов с пользовательскими claim полями.
//
// Maker определяет интерфейс для создания и проверки токенов с username и role.
// HS256Maker: реализация с общим секретным ключом и сроком жизни токена.
package jwt

import (
	"errors"
	"time"
)

// ErrInvalidToken возвращается для любого токена, который не прошёл проверку.
var ErrInvalidToken = errors.New("invalid token")

// Maker описывает интерфейс для генерации и парсинга JWT токенов.
type Maker interface {
	GenerateToken(username, role string) (string, error)
	ParseToken(tokenStr string) (*Claims, error)
}

// HS256Maker реализует Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type HS256Maker struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
	now       func() time.Time
}

// NewJWTMaker создаёт новый экземпляр HS256Maker на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *HS256Maker {
	return &HS256Maker{
		secretKey: secretKey,
		tokenTTL:  ttl,
		now:       time.Now,
	}
}
