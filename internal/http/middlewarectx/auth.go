// Package middlewarectx содержит HTTP middleware API и доступ к данным, которые они
// кладут в контекст запроса.
//
// Authenticate проверяет необязательный Bearer-токен в заголовке Authorization и
// кладёт в контекст пользователя, от имени которого выполняется запрос. Запрос без
// заголовка считается анонимным. RequirePermission отсекает запросы, которые
// таблица прав не разрешает.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/yamdb/internal/http/response"
	"github.com/magabrotheeeer/yamdb/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// Actor ключ текущего пользователя в контексте.
const Actor Key = "actor"

// Authenticator проверяет токен и возвращает его владельца.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// ActorFrom возвращает пользователя запроса или nil для анонима.
func ActorFrom(ctx context.Context) *models.User {
	u, _ := ctx.Value(Actor).(*models.User)
	return u
}

// WithActor кладёт пользователя в контекст.
func WithActor(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, Actor, u)
}

// Authenticate возвращает middleware необязательной аутентификации.
//
// Без заголовка Authorization запрос идёт дальше анонимно. Заголовок не в формате
// Bearer, просроченный или поддельный токен, а также токен удалённого пользователя
// дают 401.
func Authenticate(auth Authenticator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			const op = "middlewarectx.Authenticate"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Info("invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			user, err := auth.Authenticate(r.Context(), tokenStr)
			if err != nil {
				response.WriteError(w, r, log, err)
				return
			}

			log.Debug("request authenticated", slog.String("username", user.Username))
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), user)))
		})
	}
}
