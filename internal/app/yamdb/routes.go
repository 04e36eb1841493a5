package yamdb

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/yamdb/internal/config"
	"github.com/magabrotheeeer/yamdb/internal/http/handlers/comments"
	"github.com/magabrotheeeer/yamdb/internal/http/handlers/reviews"
	"github.com/magabrotheeeer/yamdb/internal/http/handlers/taxonomy"
	"github.com/magabrotheeeer/yamdb/internal/http/handlers/titles"
	"github.com/magabrotheeeer/yamdb/internal/http/handlers/users"
	"github.com/magabrotheeeer/yamdb/internal/http/middlewarectx"
	"github.com/magabrotheeeer/yamdb/internal/models"
	"github.com/magabrotheeeer/yamdb/internal/permissions"
)

// Handlers набор обработчиков, из которых собирается роутер.
type Handlers struct {
	Auth       middlewarectx.Authenticator
	SignUp     http.Handler
	Token      http.Handler
	Categories *taxonomy.Handler[models.Category]
	Genres     *taxonomy.Handler[models.Genre]
	Titles     *titles.Handler
	Reviews    *reviews.Handler
	Comments   *comments.Handler
	Users      *users.Handler
	Health     http.Handler
	Metrics    *middlewarectx.Metrics
	// MetricsHandler отдаёт накопленные метрики в формате Prometheus.
	MetricsHandler http.Handler
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, h Handlers, limit config.RateLimit) {
	// Глобальные middleware
	r.Use(
		middleware.StripSlashes,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		h.Metrics.Middleware,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarectx.Authenticate(h.Auth, logger))

		r.Route("/auth", func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger, limit.RPS, limit.Burst))
			r.Post("/signup", h.SignUp.ServeHTTP)
			r.Post("/token", h.Token.ServeHTTP)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Use(middlewarectx.RequirePermission(permissions.Category, logger))
			taxonomyRoutes(r, h.Categories)
		})
		r.Route("/genres", func(r chi.Router) {
			r.Use(middlewarectx.RequirePermission(permissions.Genre, logger))
			taxonomyRoutes(r, h.Genres)
		})

		r.Route("/titles", func(r chi.Router) {
			r.With(middlewarectx.RequirePermission(permissions.Title, logger)).Group(func(r chi.Router) {
				r.Get("/", h.Titles.List)
				r.Post("/", h.Titles.Create)
				r.Get("/{title_id}", h.Titles.Get)
				r.Patch("/{title_id}", h.Titles.Update)
				r.Delete("/{title_id}", h.Titles.Delete)
			})

			r.Route("/{title_id}/reviews", func(r chi.Router) {
				r.With(middlewarectx.RequirePermission(permissions.Review, logger)).Group(func(r chi.Router) {
					r.Get("/", h.Reviews.List)
					r.Post("/", h.Reviews.Create)
					r.Get("/{review_id}", h.Reviews.Get)
					r.Patch("/{review_id}", h.Reviews.Update)
					r.Delete("/{review_id}", h.Reviews.Delete)
				})

				r.Route("/{review_id}/comments", func(r chi.Router) {
					r.Use(middlewarectx.RequirePermission(permissions.Comment, logger))
					r.Get("/", h.Comments.List)
					r.Post("/", h.Comments.Create)
					r.Get("/{comment_id}", h.Comments.Get)
					r.Patch("/{comment_id}", h.Comments.Update)
					r.Delete("/{comment_id}", h.Comments.Delete)
				})
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.With(middlewarectx.RequirePermission(permissions.Profile, logger)).Group(func(r chi.Router) {
				r.Get("/me", h.Users.Me)
				r.Patch("/me", h.Users.UpdateMe)
			})
			r.With(middlewarectx.RequirePermission(permissions.User, logger)).Group(func(r chi.Router) {
				r.Get("/", h.Users.List)
				r.Post("/", h.Users.Create)
				r.Get("/{username}", h.Users.Get)
				r.Patch("/{username}", h.Users.Update)
				r.Delete("/{username}", h.Users.Delete)
			})
		})
	})

	r.Get("/health", h.Health.ServeHTTP)
	r.Handle("/metrics", h.MetricsHandler)
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}

func taxonomyRoutes[T any](r chi.Router, h *taxonomy.Handler[T]) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{slug}", h.Get)
	r.Patch("/{slug}", h.Update)
	r.Delete("/{slug}", h.Delete)
}
