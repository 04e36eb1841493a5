// Package titles реализует HTTP-обработчики произведений.
//
// Категория и жанры во входных данных задаются слагами, в ответе раскрываются
// в пары name/slug вместе с рейтингом. Список фильтруется по жанру, категории,
// году и части названия.
package titles

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/yamdb/internal/http/request"
	"github.com/magabrotheeeer/yamdb/internal/http/response"
	"github.com/magabrotheeeer/yamdb/internal/lib/sl"
	"github.com/magabrotheeeer/yamdb/internal/lib/validate"
	"github.com/magabrotheeeer/yamdb/internal/models"
	"github.com/magabrotheeeer/yamdb/internal/services"
)

// CreateRequest: данные нового произведения.
type CreateRequest struct {
	Name        string   `json:"name" validate:"required,max=256"`
	Year        *int     `json:"year" validate:"required,gte=0,maxyear"`
	Description string   `json:"description"`
	Category    *string  `json:"category" validate:"omitempty,max=50,slug"`
	Genre       []string `json:"genre" validate:"required,min=1,dive,max=50,slug"`
}

// UpdateRequest: частичное обновление. Переданный genre заменяет набор жанров целиком.
type UpdateRequest struct {
	Name        *string   `json:"name" validate:"omitempty,min=1,max=256"`
	Year        *int      `json:"year" validate:"omitempty,gte=0,maxyear"`
	Description *string   `json:"description"`
	Category    *string   `json:"category" validate:"omitempty,max=50,slug"`
	Genre       *[]string `json:"genre" validate:"omitempty,min=1,dive,max=50,slug"`
}

// Service описывает бизнес-логику произведений.
type Service interface {
	List(ctx context.Context, filter models.TitleFilter, page models.Page) (models.List[models.Title], error)
	Get(ctx context.Context, id int64) (*models.Title, error)
	Create(ctx context.Context, in models.TitleInput) (*models.Title, error)
	Update(ctx context.Context, id int64, patch models.TitlePatch) (*models.Title, error)
	Delete(ctx context.Context, id int64) error
}

// Handler обрабатывает запросы к произведениям.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает обработчик произведений.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validate.New(),
	}
}

func yearError() error {
	return services.NewValidationError("year", "A valid integer is required.")
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// List godoc
// @Summary Список произведений
// @Tags Titles
// @Produce json
// @Param genre query string false "Слаг жанра"
// @Param category query string false "Слаг категории"
// @Param year query int false "Год выпуска"
// @Param name query string false "Часть названия"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Некорректный год"
// @Router /titles [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.titles.list")

	q := r.URL.Query()
	filter := models.TitleFilter{
		Genre:    q.Get("genre"),
		Category: q.Get("category"),
		Name:     q.Get("name"),
	}
	if raw := q.Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			log.Info("invalid year filter", sl.Err(err))
			response.WriteError(w, r, log, yearError())
			return
		}
		filter.Year = &year
	}

	res, err := h.service.List(r.Context(), filter, request.Page(r))
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, res)
}

// Get godoc
// @Summary Произведение по id
// @Tags Titles
// @Produce json
// @Param title_id path int true "ID произведения"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /titles/{title_id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.titles.get")

	id, err := request.ID(r, "title_id")
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	title, err := h.service.Get(r.Context(), id)
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, title)
}

// Create godoc
// @Summary Добавить произведение
// @Tags Titles
// @Accept json
// @Produce json
// @Param request body CreateRequest true "Произведение"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации или неизвестный слаг"
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Security Bearer
// @Router /titles [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.titles.create")

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

	title, err := h.service.Create(r.Context(), models.TitleInput{
		Name:        req.Name,
		Year:        *req.Year,
		Description: req.Description,
		Category:    req.Category,
		Genre:       req.Genre,
	})
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	log.Info("title created", slog.Int64("id", title.ID))
	response.JSON(w, r, http.StatusCreated, title)
}

// Update частично обновляет произведение.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.titles.update")

	id, err := request.ID(r, "title_id")
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	var req UpdateRequest
	if err = request.Decode(r, &req); err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		response.BadRequest(w, r, response.MsgInvalidBody)
		return
	}
	if err = h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		response.Invalid(w, r, err)
		return
	}
	// Категорию можно заменить, но не снять.
	if req.Category != nil && *req.Category == "" {
		response.WriteError(w, r, log, services.NewValidationError("category", "This field may not be blank."))
		return
	}

	title, err := h.service.Update(r.Context(), id, models.TitlePatch{
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
		Category:    req.Category,
		Genre:       req.Genre,
	})
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, title)
}

// Delete удаляет произведение вместе с отзывами и комментариями.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.titles.delete")

	id, err := request.ID(r, "title_id")
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}
	if err = h.service.Delete(r.Context(), id); err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	log.Info("title deleted", slog.Int64("id", id))
	response.NoContent(w, r)
}
