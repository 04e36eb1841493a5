// Package auth реализует регистрацию по email и выдачу токенов.
//
// Регистрация не требует пароля: пользователь получает на почту код подтверждения,
// а затем обменивает пару username + код на JWT. В хранилище кодов лежит только
// bcrypt-хеш кода, код одноразовый и живёт ограниченное время.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/yamdb/internal/lib/jwt"
	"github.com/magabrotheeeer/yamdb/internal/lib/secret"
	"github.com/magabrotheeeer/yamdb/internal/models"
	"github.com/magabrotheeeer/yamdb/internal/services"
	"github.com/magabrotheeeer/yamdb/internal/storage"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// CodeStore хранилище хешей кодов подтверждения с временем жизни.
type CodeStore interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Notifier доставляет код подтверждения пользователю.
type Notifier interface {
	SendConfirmationCode(ctx context.Context, msg models.ConfirmationMessage) error
}

// AuthService отвечает за регистрацию, выдачу и проверку JWT.
type AuthService struct {
	users    UserRepository
	codes    CodeStore
	notifier Notifier
	jwtMaker jwt.Maker
	codeTTL  time.Duration
	newCode  func() string
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, codes CodeStore, notifier Notifier, jwtMaker jwt.Maker, codeTTL time.Duration) *AuthService {
	return &AuthService{
		users:    users,
		codes:    codes,
		notifier: notifier,
		jwtMaker: jwtMaker,
		codeTTL:  codeTTL,
		newCode:  generateCode,
	}
}

// generateCode первые восемь hex-символов случайного UUID.
func generateCode() string {
	return strings.SplitN(uuid.New().String(), "-", 2)[0]
}

func codeKey(username string) string {
	return "confirmation:" + username
}

// SignUp регистрирует пользователя и отправляет ему код подтверждения.
//
// Повторный вызов с теми же username и email не создаёт дубликат, а выпускает новый код.
// Если username или email заняты другим пользователем, возвращается services.ValidationError.
func (s *AuthService) SignUp(ctx context.Context, username, email string) (*models.User, error) {
	const op = "auth.SignUp"

	user, err := s.findOrCreate(ctx, username, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	code := s.newCode()
	hash, err := secret.Hash(code)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = s.codes.Set(ctx, codeKey(user.Username), hash, s.codeTTL); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	msg := models.ConfirmationMessage{Username: user.Username, Email: user.Email, Code: code}
	if err = s.notifier.SendConfirmationCode(ctx, msg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

func (s *AuthService) findOrCreate(ctx context.Context, username, email string) (*models.User, error) {
	byName, err := s.lookup(ctx, s.users.GetUserByUsername, username)
	if err != nil {
		return nil, err
	}
	if byName != nil && byName.Email == email {
		return byName, nil
	}
	byEmail, err := s.lookup(ctx, s.users.GetUserByEmail, email)
	if err != nil {
		return nil, err
	}

	verr := &services.ValidationError{}
	if byName != nil {
		verr.Add("username", storage.ErrUserExists.Error())
	}
	if byEmail != nil {
		verr.Add("email", storage.ErrEmailExists.Error())
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}

	user, err := s.users.CreateUser(ctx, models.User{Username: username, Email: email, Role: models.RoleUser})
	switch {
	case errors.Is(err, storage.ErrUserExists):
		return nil, services.NewValidationError("username", storage.ErrUserExists.Error())
	case errors.Is(err, storage.ErrEmailExists):
		return nil, services.NewValidationError("email", storage.ErrEmailExists.Error())
	case err != nil:
		return nil, err
	}
	return user, nil
}

func (s *AuthService) lookup(ctx context.Context, get func(context.Context, string) (*models.User, error), key string) (*models.User, error) {
	user, err := get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetToken обменивает username и код подтверждения на JWT.
// Неизвестный пользователь даёт storage.ErrNotFound, неверный или истёкший код даёт services.ErrInvalidCode.
// После успешной выдачи токена код становится недействительным.
func (s *AuthService) GetToken(ctx context.Context, username, code string) (string, error) {
	const op = "auth.GetToken"

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	var hash string
	found, err := s.codes.Get(ctx, codeKey(user.Username), &hash)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return "", fmt.Errorf("%s: %w", op, services.ErrInvalidCode)
	}
	if err = secret.Compare(hash, code); err != nil {
		if errors.Is(err, secret.ErrMismatch) {
			return "", fmt.Errorf("%s: %w", op, services.ErrInvalidCode)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.jwtMaker.GenerateToken(user.Username, user.Role)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err = s.codes.Invalidate(ctx, codeKey(user.Username)); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

// Authenticate проверяет JWT и возвращает актуальное состояние пользователя из базы,
// так что смена роли вступает в силу без перевыпуска токена.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	const op = "auth.Authenticate"

	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user, err := s.users.GetUserByUsername(ctx, claims.Username)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, jwt.ErrInvalidToken)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}
