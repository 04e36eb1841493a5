// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков. Пакет упрощает возврат
// успешных ответов, ошибок и сообщений валидации в едином формате, а WriteError
// переводит ошибки сервисного слоя в HTTP-статусы.
package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/yamdb/internal/lib/jwt"
	"github.com/magabrotheeeer/yamdb/internal/lib/sl"
	"github.com/magabrotheeeer/yamdb/internal/lib/validate"
	"github.com/magabrotheeeer/yamdb/internal/permissions"
	"github.com/magabrotheeeer/yamdb/internal/services"
	"github.com/magabrotheeeer/yamdb/internal/storage"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
// Поле Status: статус запроса ("OK" или "Error").
// Поле Error: текст ошибки (опционально, при неуспехе).
// Поле Fields: ошибки по полям запроса (опционально, при ошибке валидации).
// Поле Data: данные ответа (опционально, при успехе).
type Response struct {
	Status string            `json:"status"`
	Error  string            `json:"error,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
	Data   any               `json:"data,omitempty"`
}

// ErrorResponse: структура ошибки для Swagger-документации.
// Используется в аннотациях @Failure как возвращаемый тип ошибки.
type ErrorResponse struct {
	Status string            `json:"status" example:"Error"`
	Error  string            `json:"error" example:"invalid request body"`
	Fields map[string]string `json:"fields,omitempty"`
}

const (
	// StatusOK: значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError: значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// Сообщения, которые уходят клиенту вместо внутренних ошибок.
const (
	MsgInvalidBody   = "invalid request body"
	MsgValidation    = "validation failed"
	MsgNotFound      = "not found"
	MsgInternalError = "internal error"
	MsgInvalidToken  = "invalid or expired token"
)

// StatusOKWithData возвращает успешный Response с переданными данными.
func StatusOKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает Response с ошибкой и переданным сообщением.
func Error(msg string) Response {
	return Response{
		Status: StatusError,
		Error:  msg,
	}
}

// Fields возвращает Response с ошибками по полям.
func Fields(fields map[string]string) Response {
	return Response{
		Status: StatusError,
		Error:  MsgValidation,
		Fields: fields,
	}
}

// ValidationError формирует Response со статусом Error на основе ошибок валидатора.
func ValidationError(errs validator.ValidationErrors) Response {
	return Fields(validate.Fields(errs))
}

// JSON пишет data в конверте OK с указанным статусом.
func JSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	render.Status(r, status)
	render.JSON(w, r, StatusOKWithData(data))
}

// NoContent ответ 204 без тела.
func NoContent(w http.ResponseWriter, r *http.Request) {
	render.NoContent(w, r)
}

// BadRequest ответ 400 с сообщением о некорректном теле запроса.
func BadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, Error(msg))
}

// Invalid ответ 400 на ошибки валидатора. Прочие ошибки валидатора
// (например, InvalidValidationError) считаются некорректным телом.
func Invalid(w http.ResponseWriter, r *http.Request, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		BadRequest(w, r, MsgInvalidBody)
		return
	}
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, ValidationError(verrs))
}

// WriteError переводит ошибку сервисного слоя в HTTP-ответ.
// Неизвестные ошибки логируются и отдаются клиенту как 500 без подробностей.
func WriteError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	status, body := Classify(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", sl.Err(err))
	} else {
		log.Info("request rejected", slog.Int("status", status), sl.Err(err))
	}
	render.Status(r, status)
	render.JSON(w, r, body)
}

// Classify возвращает HTTP-статус и тело ответа для ошибки.
func Classify(err error) (int, Response) {
	if verr, ok := services.AsValidation(err); ok {
		return http.StatusBadRequest, Fields(verr.Fields)
	}

	switch {
	case errors.Is(err, services.ErrInvalidCode):
		return http.StatusBadRequest, Fields(map[string]string{
			"confirmation_code": services.ErrInvalidCode.Error(),
		})
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, Error(MsgNotFound)
	case errors.Is(err, permissions.ErrUnauthenticated):
		return http.StatusUnauthorized, Error(permissions.ErrUnauthenticated.Error())
	case errors.Is(err, jwt.ErrInvalidToken):
		return http.StatusUnauthorized, Error(MsgInvalidToken)
	case errors.Is(err, permissions.ErrForbidden):
		return http.StatusForbidden, Error(permissions.ErrForbidden.Error())
	}
	return http.StatusInternalServerError, Error(MsgInternalError)
}
