// Package signup реализует HTTP-обработчик регистрации пользователя.
//
// Обработчик принимает username и email, валидирует их и передаёт сервису
// аутентификации, который создаёт пользователя и отправляет код подтверждения.
// Повторная регистрация с той же парой username и email высылает новый код.
package signup

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/yamdb/internal/http/request"
	"github.com/magabrotheeeer/yamdb/internal/http/response"
	"github.com/magabrotheeeer/yamdb/internal/lib/sl"
	"github.com/magabrotheeeer/yamdb/internal/lib/validate"
	"github.com/magabrotheeeer/yamdb/internal/models"
)

// Request: структура входных данных для регистрации.
type Request struct {
	Username string `json:"username" validate:"required,max=150,username,notme"`
	Email    string `json:"email" validate:"required,max=254,email"`
}

// Handler обрабатывает HTTP-запросы регистрации.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Сервис аутентификации
	validate *validator.Validate // Валидатор для проверки входных данных
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	SignUp(ctx context.Context, username, email string) (*models.User, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validate.New(),
	}
}

// ServeHTTP godoc
// @Summary Регистрация пользователя
// @Description Создаёт пользователя и отправляет код подтверждения на email.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "username и email"
// @Success 200 {object} response.Response "Код подтверждения отправлен"
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации или занятые username/email"
// @Failure 429 {object} response.ErrorResponse "Слишком много запросов"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/signup [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.signup"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
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

	user, err := h.service.SignUp(r.Context(), req.Username, req.Email)
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	log.Info("confirmation code sent", slog.String("username", user.Username))
	response.JSON(w, r, http.StatusOK, Request{
		Username: user.Username,
		Email:    user.Email,
	})
}
