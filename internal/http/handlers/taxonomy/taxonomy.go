// Package taxonomy реализует HTTP-обработчики справочников категорий и жанров.
//
// Оба справочника устроены одинаково (name и slug, поиск по имени, адресация по слагу),
// поэтому обработчик обобщён по типу записи. Права доступа проверяются middleware
// на уровне маршрутов.
package taxonomy

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/yamdb/internal/http/request"
	"github.com/magabrotheeeer/yamdb/internal/http/response"
	"github.com/magabrotheeeer/yamdb/internal/lib/sl"
	"github.com/magabrotheeeer/yamdb/internal/lib/validate"
	"github.com/magabrotheeeer/yamdb/internal/models"
)

// CreateRequest: данные новой записи справочника.
type CreateRequest struct {
	Name string `json:"name" validate:"required,max=256"`
	Slug string `json:"slug" validate:"required,max=50,slug"`
}

// UpdateRequest: частичное обновление. Отсутствующие поля не меняются.
type UpdateRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=256"`
	Slug *string `json:"slug" validate:"omitempty,max=50,slug"`
}

// Service описывает бизнес-логику справочника.
type Service[T any] interface {
	List(ctx context.Context, search string, page models.Page) (models.List[T], error)
	Create(ctx context.Context, ns models.NameSlug) (T, error)
	Get(ctx context.Context, slug string) (T, error)
	Update(ctx context.Context, slug string, patch models.NameSlugPatch) (T, error)
	Delete(ctx context.Context, slug string) error
}

// Handler обрабатывает запросы к одному справочнику.
type Handler[T any] struct {
	log      *slog.Logger
	name     string
	service  Service[T]
	validate *validator.Validate
}

// New создает обработчик справочника. name попадает в op логов.
func New[T any](log *slog.Logger, name string, service Service[T]) *Handler[T] {
	return &Handler[T]{
		log:      log,
		name:     name,
		service:  service,
		validate: validate.New(),
	}
}

func (h *Handler[T]) logger(r *http.Request, action string) *slog.Logger {
	return h.log.With(
		slog.String("op", "handlers."+h.name+"."+action),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// List godoc
// @Summary Список категорий или жанров
// @Tags Catalog
// @Produce json
// @Param search query string false "Поиск по названию"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.Response
// @Router /categories [get]
// @Router /genres [get]
func (h *Handler[T]) List(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "list")

	res, err := h.service.List(r.Context(), request.Search(r), request.Page(r))
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, res)
}

// Create godoc
// @Summary Добавить категорию или жанр
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body CreateRequest true "Название и слаг"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Security Bearer
// @Router /categories [post]
// @Router /genres [post]
func (h *Handler[T]) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "create")

	var req CreateRequest
	if err := request.Decode(r, &req); err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		response.BadRequest(w, r, response.MsgInvalidBody)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		response.Invalid(w, r, err)
		return
	}

	item, err := h.service.Create(r.Context(), models.NameSlug{Name: req.Name, Slug: req.Slug})
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	log.Info("created", slog.String("slug", req.Slug))
	response.JSON(w, r, http.StatusCreated, item)
}

// Get возвращает запись по слагу.
func (h *Handler[T]) Get(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "get")

	item, err := h.service.Get(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, item)
}

// Update частично обновляет запись по слагу.
func (h *Handler[T]) Update(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "update")

	var req UpdateRequest
	if err := request.Decode(r, &req); err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		response.BadRequest(w, r, response.MsgInvalidBody)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		response.Invalid(w, r, err)
		return
	}

	item, err := h.service.Update(r.Context(), chi.URLParam(r, "slug"), models.NameSlugPatch{
		Name: req.Name,
		Slug: req.Slug,
	})
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, item)
}

// Delete удаляет запись по слагу.
func (h *Handler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "delete")

	slug := chi.URLParam(r, "slug")
	if err := h.service.Delete(r.Context(), slug); err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	log.Info("deleted", slog.String("slug", slug))
	response.NoContent(w, r)
}
