// Package token реализует HTTP-обработчик выдачи JWT по коду подтверждения.
package token

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
)

// Request: username и код из письма.
type Request struct {
	Username         string `json:"username" validate:"required,max=150"`
	ConfirmationCode string `json:"confirmation_code" validate:"required"`
}

// Handler обрабатывает HTTP-запросы на получение токена.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики выдачи токена.
type Service interface {
	GetToken(ctx context.Context, username, code string) (string, error)
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
// @Summary Получение JWT-токена
// @Description Обменивает username и код подтверждения на токен доступа. Код одноразовый.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "username и confirmation_code"
// @Success 200 {object} response.Response "Токен"
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации или неверный код"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Router /auth/token [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.token"

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

	tok, err := h.service.GetToken(r.Context(), req.Username, req.ConfirmationCode)
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	log.Info("token issued", slog.String("username", req.Username))
	response.JSON(w, r, http.StatusOK, map[string]string{"token": tok})
}
