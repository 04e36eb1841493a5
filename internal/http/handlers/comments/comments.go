// Package comments реализует HTTP-обработчики комментариев к отзывам:
// /titles/{title_id}/reviews/{review_id}/comments.
package comments

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

// CreateRequest: текст комментария.
type CreateRequest struct {
	Text string `json:"text" validate:"required"`
}

// UpdateRequest: новый текст комментария.
type UpdateRequest struct {
	Text *string `json:"text" validate:"omitempty,min=1"`
}

// Service описывает бизнес-логику комментариев.
type Service interface {
	ListComments(ctx context.Context, titleID, reviewID int64, page models.Page) (models.List[models.Comment], error)
	GetComment(ctx context.Context, titleID, reviewID, commentID int64) (*models.Comment, error)
	CreateComment(ctx context.Context, actor *models.User, titleID, reviewID int64, text string) (*models.Comment, error)
	UpdateComment(ctx context.Context, actor *models.User, titleID, reviewID, commentID int64, text *string) (*models.Comment, error)
	DeleteComment(ctx context.Context, actor *models.User, titleID, reviewID, commentID int64) error
}

// Handler обрабатывает запросы к комментариям.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает обработчик комментариев.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validate.New(),
	}
}

type path struct {
	titleID, reviewID, commentID int64
}

func parsePath(r *http.Request, withComment bool) (path, error) {
	var (
		p   path
		err error
	)
	if p.titleID, err = request.ID(r, "title_id"); err != nil {
		return p, err
	}
	if p.reviewID, err = request.ID(r, "review_id"); err != nil {
		return p, err
	}
	if withComment {
		if p.commentID, err = request.ID(r, "comment_id"); err != nil {
			return p, err
		}
	}
	return p, nil
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// List godoc
// @Summary Комментарии к отзыву
// @Tags Comments
// @Produce json
// @Param title_id path int true "ID произведения"
// @Param review_id path int true "ID отзыва"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /titles/{title_id}/reviews/{review_id}/comments [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.comments.list")

	p, err := parsePath(r, false)
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	res, err := h.service.ListComments(r.Context(), p.titleID, p.reviewID, request.Page(r))
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, res)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.comments.get")

	p, err := parsePath(r, true)
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	c, err := h.service.GetComment(r.Context(), p.titleID, p.reviewID, p.commentID)
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, c)
}

// Create godoc
// @Summary Добавить комментарий
// @Tags Comments
// @Accept json
// @Produce json
// @Param title_id path int true "ID произведения"
// @Param review_id path int true "ID отзыва"
// @Param request body CreateRequest true "Текст"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security Bearer
// @Router /titles/{title_id}/reviews/{review_id}/comments [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.comments.create")

	p, err := parsePath(r, false)
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
	c, err := h.service.CreateComment(r.Context(), actor, p.titleID, p.reviewID, req.Text)
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	log.Info("comment created", slog.Int64("review_id", p.reviewID), slog.Int64("id", c.ID))
	response.JSON(w, r, http.StatusCreated, c)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.comments.update")

	p, err := parsePath(r, true)
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
	c, err := h.service.UpdateComment(r.Context(), actor, p.titleID, p.reviewID, p.commentID, req.Text)
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, c)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.comments.delete")

	p, err := parsePath(r, true)
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	actor := middlewarectx.ActorFrom(r.Context())
	if err = h.service.DeleteComment(r.Context(), actor, p.titleID, p.reviewID, p.commentID); err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	log.Info("comment deleted", slog.Int64("id", p.commentID))
	response.NoContent(w, r)
}
