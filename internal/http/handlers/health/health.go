// Package health отдаёт состояние сервиса и его зависимостей.
package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/yamdb/internal/http/response"
	"github.com/magabrotheeeer/yamdb/internal/lib/sl"
)

// Pinger зависимость, доступность которой проверяется.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler проверяет зависимости по очереди.
type Handler struct {
	log     *slog.Logger
	checks  map[string]Pinger
	timeout time.Duration
}

// New создает обработчик. checks: имя зависимости и её проверка.
func New(log *slog.Logger, checks map[string]Pinger) *Handler {
	return &Handler{
		log:     log,
		checks:  checks,
		timeout: 2 * time.Second,
	}
}

// ServeHTTP godoc
// @Summary Состояние сервиса
// @Tags Health
// @Produce json
// @Success 200 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	status := http.StatusOK
	result := map[string]string{"status": "ok"}
	for name, dep := range h.checks {
		if err := dep.Ping(ctx); err != nil {
			log.Error("dependency is unavailable", slog.String("dependency", name), sl.Err(err))
			result[name] = "unavailable"
			result["status"] = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		result[name] = "ok"
	}

	render.Status(r, status)
	render.JSON(w, r, response.StatusOKWithData(result))
}
