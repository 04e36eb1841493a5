// Package permissions решает, что может делать актор с ресурсом.
//
// Права сведены в одну таблицу: класс актора (аноним, пользователь, модератор, админ)
// и ресурс дают уровень доступа. Отказ анониму означает «нужно войти» (401),
// отказ вошедшему пользователю означает «недостаточно прав» (403).
package permissions

import (
	"errors"
	"net/http"

	"github.com/magabrotheeeer/yamdb/internal/models"
)

var (
	// ErrUnauthenticated действие требует аутентификации.
	ErrUnauthenticated = errors.New("authentication credentials were not provided")
	// ErrForbidden у актора недостаточно прав.
	ErrForbidden = errors.New("you do not have permission to perform this action")
)

// Resource вид защищаемого ресурса.
type Resource string

// Ресурсы API.
const (
	Category Resource = "category"
	Genre    Resource = "genre"
	Title    Resource = "title"
	Review   Resource = "review"
	Comment  Resource = "comment"
	User     Resource = "user"
	Profile  Resource = "profile"
)

// Level уровень доступа.
type Level int

// Уровни доступа по возрастанию.
const (
	None Level = iota // ничего
	Read              // только безопасные методы
	Own               // чтение, создание и изменение своих объектов
	Any               // всё
)

// Class класс актора.
type Class int

// Классы акторов.
const (
	Anonymous Class = iota
	Authenticated
	Moderator
	Admin
)

var table = map[Resource][4]Level{
	//               Anonymous Authenticated Moderator Admin
	Category: {Read, Read, Read, Any},
	Genre:    {Read, Read, Read, Any},
	Title:    {Read, Read, Read, Any},
	Review:   {Read, Own, Any, Any},
	Comment:  {Read, Own, Any, Any},
	User:     {None, None, None, Any},
	Profile:  {None, Own, Own, Own},
}

// ClassOf определяет класс актора. nil означает анонима.
func ClassOf(actor *models.User) Class {
	switch {
	case actor == nil:
		return Anonymous
	case actor.IsAdmin():
		return Admin
	case actor.IsModerator():
		return Moderator
	default:
		return Authenticated
	}
}

// LevelOf возвращает уровень доступа актора к ресурсу.
func LevelOf(actor *models.User, res Resource) Level {
	levels, ok := table[res]
	if !ok {
		return None
	}
	return levels[ClassOf(actor)]
}

// IsSafe true для методов, которые ничего не меняют.
func IsSafe(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// Allow проверка на уровне коллекции или эндпоинта: можно ли вообще вызывать method.
// Для уровня Own разрешены и записи; принадлежность объекта проверяет AllowObject.
func Allow(actor *models.User, method string, res Resource) error {
	switch LevelOf(actor, res) {
	case Any, Own:
		return nil
	case Read:
		if IsSafe(method) {
			return nil
		}
	}
	return deny(actor)
}

// AllowObject проверка на уровне конкретного объекта с автором ownerID.
func AllowObject(actor *models.User, method string, res Resource, ownerID int64) error {
	switch LevelOf(actor, res) {
	case Any:
		return nil
	case Own:
		if IsSafe(method) || actor.ID == ownerID {
			return nil
		}
	case Read:
		if IsSafe(method) {
			return nil
		}
	}
	return deny(actor)
}

// CanChangeRole только администратор может менять роли.
func CanChangeRole(actor *models.User) bool {
	return ClassOf(actor) == Admin
}

func deny(actor *models.User) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	return ErrForbidden
}
