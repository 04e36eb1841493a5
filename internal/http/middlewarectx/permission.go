package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/yamdb/internal/http/response"
	"github.com/magabrotheeeer/yamdb/internal/permissions"
)

// RequirePermission пропускает запрос, только если таблица прав разрешает
// актору метод запроса над ресурсом res. Проверка владельца объекта остаётся сервисам.
func RequirePermission(res permissions.Resource, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := permissions.Allow(ActorFrom(r.Context()), r.Method, res); err != nil {
				log := log.With(
					slog.String("op", "middlewarectx.RequirePermission"),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.String("resource", string(res)),
				)
				response.WriteError(w, r, log, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
