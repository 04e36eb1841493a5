package jwt

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "yamdb"

// Claims описывает пользовательские данные, хранящиеся в JWT.
type Claims struct {
	Username             string `json:"username"` // Имя пользователя
	Role                 string `json:"role"`     // Роль на момент выдачи токена
	jwt.RegisteredClaims        // ExpiresAt, IssuedAt, Subject и пр.
}

// GenerateToken создает JWT токен с заданными username и role, подписывая его секретным ключом.
func (j *HS256Maker) GenerateToken(username, role string) (string, error) {
	const op = "jwt.GenerateToken"

	now := j.now()
	claims := Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return signed, nil
}

// ParseToken парсит JWT токен, проверяет подпись, алгоритм и срок действия.
func (j *HS256Maker) ParseToken(tokenStr string) (*Claims, error) {
	const op = "jwt.ParseToken"

	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Username == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}
	return claims, nil
}
