// Package validate собирает валидатор входящих данных с тегами предметной области.
//
// Помимо стандартных тегов go-playground/validator зарегистрированы:
//
//	username: только буквы, цифры и символы .@+-_
//	notme:    значение не может быть "me" (зарезервировано под /users/me/)
//	slug:     латиница, цифры, дефис и подчёркивание
//	maxyear:  год не больше текущего
//
// Имена полей в ошибках берутся из json-тегов.
package validate

import (
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator"
)

// ReservedUsername имя, занятое эндпоинтом собственного профиля.
const ReservedUsername = "me"

var (
	usernameRe = regexp.MustCompile(`^[\w.@+-]+$`)
	slugRe     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// now подменяется в тестах.
var now = time.Now

// New возвращает валидатор с зарегистрированными тегами.
func New() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// ошибки регистрации возможны только при пустом теге
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("notme", func(fl validator.FieldLevel) bool {
		return fl.Field().String() != ReservedUsername
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("maxyear", func(fl validator.FieldLevel) bool {
		return fl.Field().Int() <= int64(now().Year())
	})

	return v
}

// Message возвращает человеко-читаемое описание нарушения.
func Message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "max":
		return "Ensure this field has no more than " + fe.Param() + " characters."
	case "min":
		if fe.Kind() == reflect.Slice {
			return "This list may not be empty."
		}
		return "Ensure this value is greater than or equal to " + fe.Param() + "."
	case "gte":
		return "Ensure this value is greater than or equal to " + fe.Param() + "."
	case "lte":
		return "Ensure this value is less than or equal to " + fe.Param() + "."
	case "oneof":
		return "Must be one of: " + fe.Param() + "."
	case "username":
		return "Enter a valid username. It may contain only letters, numbers, and @/./+/-/_ characters."
	case "notme":
		return `Username "me" is not allowed.`
	case "slug":
		return "Enter a valid slug consisting of letters, numbers, underscores or hyphens."
	case "maxyear":
		return "Year cannot be in the future."
	default:
		return "Invalid value."
	}
}

// Fields переводит ошибки валидатора в карту поле → сообщение.
func Fields(errs validator.ValidationErrors) map[string]string {
	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		if _, ok := fields[fe.Field()]; ok {
			continue
		}
		fields[fe.Field()] = Message(fe)
	}
	return fields
}
