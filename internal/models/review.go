package models

import "time"

// Границы оценки в отзыве.
const (
	MinScore = 1
	MaxScore = 10
)

// TextDate общая группа полей отзыва и комментария.
type TextDate struct {
	Text    string    `json:"text"`
	PubDate time.Time `json:"pub_date"`
}

// Review отзыв пользователя на произведение. Один автор пишет не больше одного отзыва на произведение.
type Review struct {
	ID       int64  `json:"id"`
	TitleID  int64  `json:"-"`
	AuthorID int64  `json:"-"`
	Author   string `json:"author"`
	Score    int    `json:"score"`
	TextDate
}

// ReviewPatch частичное обновление отзыва.
type ReviewPatch struct {
	Text  *string
	Score *int
}

// Comment комментарий к отзыву.
type Comment struct {
	ID       int64  `json:"id"`
	ReviewID int64  `json:"-"`
	AuthorID int64  `json:"-"`
	Author   string `json:"author"`
	TextDate
}
