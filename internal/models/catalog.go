package models

// NameSlug общая группа полей категории и жанра.
type NameSlug struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Category категория произведения («Фильмы», «Книги», «Музыка»).
type Category struct {
	ID int64 `json:"-"`
	NameSlug
}

// Genre жанр произведения. У одного произведения может быть несколько жанров.
type Genre struct {
	ID int64 `json:"-"`
	NameSlug
}

// NameSlugPatch частичное обновление категории или жанра.
type NameSlugPatch struct {
	Name *string
	Slug *string
}
