package models

// Title произведение, к которому пишут отзывы.
// Rating вычисляется при чтении как округлённое среднее оценок и равен nil, пока отзывов нет.
type Title struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Year        int        `json:"year"`
	Description string     `json:"description"`
	Rating      *int       `json:"rating"`
	Category    *NameSlug  `json:"category"`
	Genre       []NameSlug `json:"genre"`
}

// TitleInput данные для создания произведения. Категория и жанры задаются слагами.
type TitleInput struct {
	Name        string
	Year        int
	Description string
	Category    *string
	Genre       []string
}

// TitlePatch частичное обновление произведения.
// Genre, если передан, полностью заменяет набор жанров.
type TitlePatch struct {
	Name        *string
	Year        *int
	Description *string
	Category    *string
	Genre       *[]string
}

// TitleFilter фильтры списка произведений. Пустые поля не участвуют в отборе.
type TitleFilter struct {
	Genre    string
	Category string
	Year     *int
	Name     string
}
