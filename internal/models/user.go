// Package models содержит доменные структуры сервиса отзывов:
// пользователей, категории, жанры, произведения, отзывы и комментарии.
// Структуры используются в бизнес‑логике, хранилище и напрямую сериализуются в ответы API.
package models

import "time"

// Роли пользователей.
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// User представляет зарегистрированного пользователя системы.
type User struct {
	ID          int64     `json:"-"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Bio         string    `json:"bio"`
	Role        string    `json:"role"`
	IsSuperuser bool      `json:"-"`
	DateJoined  time.Time `json:"-"`
}

// IsAdmin true для роли admin и для суперпользователя независимо от роли.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.IsSuperuser
}

// IsModerator true для роли moderator.
func (u *User) IsModerator() bool {
	return u.Role == RoleModerator
}

// ValidRole проверяет, что роль входит в список известных.
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// UserPatch частичное обновление пользователя. nil означает «не менять».
type UserPatch struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *string
}
