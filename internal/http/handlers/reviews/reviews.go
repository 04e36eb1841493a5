// Package reviews реализует HTTP-обработчики отзывов на произведения.
//
// Отзывы вложены в произведение: /titles/{title_id}/reviews. Автором отзыва
// становится пользователь запроса; изменять и удалять отзыв могут автор,
// модератор и администратор.
package reviews

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/yamdb/internal/http/middlewarectx"
	"github.com/magabrotheeeer/yamdb/internal/http/request"
	"github.com/magabrotheeeer/yamdb/internal/http/response"
	"github.com/magabrotheeeer/yamdb/internal/lib/sl"
	"github.com/magabrotheeeer/yamdb/internal/lib/validate"
	"github.com/magabrotheeeer/yamdb/internal/models"
)

// CreateRequest: текст и оценка отзыва.
type CreateRequest struct {
	Text  string `json:"text" validate:"required"`
	Score *int   `json:"score" validate:"required,gte=1,lte=10"`
}

// UpdateRequest: частичное обновление отзыва.
type UpdateRequest struct {
	Text  *string `json:"text" validate:"omitempty,min=1"`
	Score *int    `json:"score" validate:"omitempty,gte=1,lte=10"`
}

// Service описывает бизнес-логику отзывов.
type Service interface {
	ListReviews(ctx context.Context, titleID int64, page models.Page) (models.List[models.Review], error)
	GetReview(ctx context.Context, titleID, reviewID int64) (*models.Review, error)
	CreateReview(ctx context.Context, actor *models.User, titleID int64, text string, score int) (*models.Review, error)
	UpdateReview(ctx context.Context, actor *models.User, titleID, reviewID int64, patch models.ReviewPatch) (*models.Review, error)
	DeleteReview(ctx context.Context, actor *models.User, titleID, reviewID int64) error
}

// Handler обрабатывает запросы к отзывам.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис отзывов
	validate *validator.Validate // Валидатор входящих данных
}

// New создает обработчик отзывов.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validate.New(),
	}
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// ids читает title_id и, если нужен, review_id.
func ids(r *http.Request, withReview bool) (titleID, reviewID int64, err error) {
	if titleID, err = request.ID(r, "title_id"); err != nil {
		return 0, 0, err
	}
	if withReview {
		if reviewID, err = request.ID(r, "review_id"); err != nil {
			return 0, 0, err
		}
	}
	return titleID, reviewID, nil
}

// List godoc
// @Summary Отзывы на произведение
// @Tags Reviews
// @Produce json
// @Param title_id path int true "ID произведения"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /titles/{title_id}/reviews [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.reviews.list")

	titleID, _, err := ids(r, false)
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	res, err := h.service.ListReviews(r.Context(), titleID, request.Page(r))
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, res)
}

// Get возвращает отзыв. Отзыв другого произведения даёт 404.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.reviews.get")

	titleID, reviewID, err := ids(r, true)
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	review, err := h.service.GetReview(r.Context(), titleID, reviewID)
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, review)
}

// Create godoc
// @Summary Оставить отзыв
// @Description Один пользователь может оставить не больше одного отзыва на произведение.
// @Tags Reviews
// @Accept json
// @Produce json
// @Param title_id path int true "ID произведения"
// @Param request body CreateRequest true "Текст и оценка"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации или повторный отзыв"
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security Bearer
// @Router /titles/{title_id}/reviews [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.reviews.create")

	titleID, _, err := ids(r, false)
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	var req CreateRequest
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

	actor := middlewarectx.ActorFrom(r.Context())
	review, err := h.service.CreateReview(r.Context(), actor, titleID, req.Text, *req.Score)
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	log.Info("review created", slog.Int64("title_id", titleID), slog.Int64("id", review.ID))
	response.JSON(w, r, http.StatusCreated, review)
}

// Update частично обновляет отзыв.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.reviews.update")

	titleID, reviewID, err := ids(r, true)
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

	actor := middlewarectx.ActorFrom(r.Context())
	review, err := h.service.UpdateReview(r.Context(), actor, titleID, reviewID, models.ReviewPatch{
		Text:  req.Text,
		Score: req.Score,
	})
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, review)
}

// Delete удаляет отзыв вместе с комментариями.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.reviews.delete")

	titleID, reviewID, err := ids(r, true)
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	actor := middlewarectx.ActorFrom(r.Context())
	if err = h.service.DeleteReview(r.Context(), actor, titleID, reviewID); err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	log.Info("review deleted", slog.Int64("id", reviewID))
	response.NoContent(w, r)
}
