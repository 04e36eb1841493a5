package models

// ConfirmationMessage письмо с кодом подтверждения, которое уходит в очередь уведомлений.
type ConfirmationMessage struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Code     string `json:"confirmation_code"`
}
