// Package users реализует HTTP-обработчики учётных записей.
//
// Администратор управляет любыми пользователями через /users и /users/{username}.
// Любой вошедший пользователь читает и правит свой профиль через /users/me;
// роль в собственном профиле меняет только администратор.
package users

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/yamdb/internal/http/middlewarectx"
	"github.com/magabrotheeeer/yamdb/internal/http/request"
	"github.com/magabrotheeeer/yamdb/internal/http/response"
	"github.com/magabrotheeeer/yamdb/internal/lib/sl"
	"github.com/magabrotheeeer/yamdb/internal/lib/validate"
	"github.com/magabrotheeeer/yamdb/internal/models"
	"github.com/magabrotheeeer/yamdb/internal/permissions"
)

// CreateRequest: пользователь, которого заводит администратор.
type CreateRequest struct {
	Username  string `json:"username" validate:"required,max=150,username,notme"`
	Email     string `json:"email" validate:"required,max=254,email"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
	Bio       string `json:"bio"`
	Role      string `json:"role" validate:"omitempty,oneof=user moderator admin"`
}

// UpdateRequest: частичное обновление пользователя.
type UpdateRequest struct {
	Username  *string `json:"username" validate:"omitempty,max=150,username,notme"`
	Email     *string `json:"email" validate:"omitempty,max=254,email"`
	FirstName *string `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name" validate:"omitempty,max=150"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role" validate:"omitempty,oneof=user moderator admin"`
}

func (req UpdateRequest) patch() models.UserPatch {
	return models.UserPatch{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      req.Role,
	}
}

// Service описывает бизнес-логику пользователей.
type Service interface {
	List(ctx context.Context, search string, page models.Page) (models.List[models.User], error)
	Create(ctx context.Context, user models.User) (*models.User, error)
	Get(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, username string, patch models.UserPatch) (*models.User, error)
	Delete(ctx context.Context, username string) error
	Me(ctx context.Context, actor *models.User) (*models.User, error)
	UpdateMe(ctx context.Context, actor *models.User, patch models.UserPatch) (*models.User, error)
}

// Handler обрабатывает запросы к пользователям.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис пользователей
	validate *validator.Validate // Валидатор входящих данных
}

// New создает обработчик пользователей.
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

// decodeUpdate читает и проверяет тело PATCH. Если keepRole false, роль
// отбрасывается до проверки. При ошибке ответ уже записан.
func (h *Handler) decodeUpdate(w http.ResponseWriter, r *http.Request, log *slog.Logger, keepRole bool) (UpdateRequest, bool) {
	var req UpdateRequest
	if err := request.Decode(r, &req); err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		response.BadRequest(w, r, response.MsgInvalidBody)
		return req, false
	}
	if !keepRole {
		req.Role = nil
	}
	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		response.Invalid(w, r, err)
		return req, false
	}
	return req, true
}

// List godoc
// @Summary Список пользователей
// @Tags Users
// @Produce json
// @Param search query string false "Поиск по username"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Security Bearer
// @Router /users [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.users.list")

	res, err := h.service.List(r.Context(), request.Search(r), request.Page(r))
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, res)
}

// Create godoc
// @Summary Создать пользователя
// @Tags Users
// @Accept json
// @Produce json
// @Param request body CreateRequest true "Пользователь"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Security Bearer
// @Router /users [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.users.create")

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

	user, err := h.service.Create(r.Context(), models.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      req.Role,
	})
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	log.Info("user created", slog.String("username", user.Username), slog.String("role", user.Role))
	response.JSON(w, r, http.StatusCreated, user)
}

// Get возвращает пользователя по username.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.users.get")

	user, err := h.service.Get(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, user)
}

// Update частично обновляет пользователя, включая роль.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.users.update")

	req, ok := h.decodeUpdate(w, r, log, true)
	if !ok {
		return
	}

	user, err := h.service.Update(r.Context(), chi.URLParam(r, "username"), req.patch())
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, user)
}

// Delete удаляет пользователя вместе с его отзывами и комментариями.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.users.delete")

	username := chi.URLParam(r, "username")
	if err := h.service.Delete(r.Context(), username); err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	log.Info("user deleted", slog.String("username", username))
	response.NoContent(w, r)
}

// Me godoc
// @Summary Свой профиль
// @Tags Users
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Security Bearer
// @Router /users/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.users.me")

	user, err := h.service.Me(r.Context(), middlewarectx.ActorFrom(r.Context()))
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, user)
}

// UpdateMe godoc
// @Summary Изменить свой профиль
// @Description Присланная роль игнорируется, если пользователь не администратор.
// @Tags Users
// @Accept json
// @Produce json
// @Param request body UpdateRequest true "Поля профиля"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Security Bearer
// @Router /users/me [patch]
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.users.update_me")

	actor := middlewarectx.ActorFrom(r.Context())
	req, ok := h.decodeUpdate(w, r, log, permissions.CanChangeRole(actor))
	if !ok {
		return
	}

	user, err := h.service.UpdateMe(r.Context(), actor, req.patch())
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, user)
}
