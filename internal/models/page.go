package models

// Параметры пагинации по умолчанию.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Page окно выборки limit/offset.
type Page struct {
	Limit  int
	Offset int
}

// NewPage нормализует параметры: limit в пределах 1..MaxLimit, offset не отрицательный.
func NewPage(limit, offset int) Page {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return Page{Limit: limit, Offset: offset}
}

// List страница результатов вместе с общим количеством записей.
type List[T any] struct {
	Count   int `json:"count"`
	Results []T `json:"results"`
}
