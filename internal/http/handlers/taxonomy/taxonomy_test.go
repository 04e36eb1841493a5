package taxonomy

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/yamdb/internal/lib/sl"
	"github.com/magabrotheeeer/yamdb/internal/models"
	"github.com/magabrotheeeer/yamdb/internal/services"
	"github.com/magabrotheeeer/yamdb/internal/storage"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) List(ctx context.Context, search string, page models.Page) (models.List[models.Genre], error) {
	args := m.Called(ctx, search, page)
	return args.Get(0).(models.List[models.Genre]), args.Error(1)
}

func (m *MockService) Create(ctx context.Context, ns models.NameSlug) (models.Genre, error) {
	args := m.Called(ctx, ns)
	return args.Get(0).(models.Genre), args.Error(1)
}

func (m *MockService) Get(ctx context.Context, slug string) (models.Genre, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(models.Genre), args.Error(1)
}

func (m *MockService) Update(ctx context.Context, slug string, patch models.NameSlugPatch) (models.Genre, error) {
	args := m.Called(ctx, slug, patch)
	return args.Get(0).(models.Genre), args.Error(1)
}

func (m *MockService) Delete(ctx context.Context, slug string) error {
	return m.Called(ctx, slug).Error(0)
}

func drama() models.Genre {
	return models.Genre{ID: 1, NameSlug: models.NameSlug{Name: "Драма", Slug: "drama"}}
}

func newRouter(svc *MockService) http.Handler {
	h := New[models.Genre](sl.Discard(), "genres", svc)
	r := chi.NewRouter()
	r.Get("/genres", h.List)
	r.Post("/genres", h.Create)
	r.Get("/genres/{slug}", h.Get)
	r.Patch("/genres/{slug}", h.Update)
	r.Delete("/genres/{slug}", h.Delete)
	return r
}

func TestTaxonomyHandlers(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		url            string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:   "список с поиском и пагинацией",
			method: http.MethodGet,
			url:    "/genres?search=%D0%B4%D1%80%D0%B0&limit=5&offset=5",
			setupMock: func(m *MockService) {
				m.On("List", mock.Anything, "дра", models.Page{Limit: 5, Offset: 5}).
					Return(models.List[models.Genre]{Count: 6, Results: []models.Genre{drama()}}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"count":6,"results":[{"name":"Драма","slug":"drama"}]}`,
		},
		{
			name:   "создание",
			method: http.MethodPost,
			url:    "/genres",
			body:   `{"name":"Драма","slug":"drama"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, models.NameSlug{Name: "Драма", Slug: "drama"}).Return(drama(), nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"slug":"drama"`,
		},
		{
			name:           "создание с недопустимым слагом",
			method:         http.MethodPost,
			url:            "/genres",
			body:           `{"name":"Драма","slug":"драма"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"slug":`,
		},
		{
			name:   "создание с занятым слагом",
			method: http.MethodPost,
			url:    "/genres",
			body:   `{"name":"Драма","slug":"drama"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.Anything).
					Return(models.Genre{}, fmt.Errorf("catalog.genres.Create: %w", services.NewValidationError("slug", "slug already exists")))
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"fields":{"slug":"slug already exists"}`,
		},
		{
			name:   "получение по слагу",
			method: http.MethodGet,
			url:    "/genres/drama",
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, "drama").Return(drama(), nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"name":"Драма"`,
		},
		{
			name:   "неизвестный слаг",
			method: http.MethodGet,
			url:    "/genres/nope",
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, "nope").Return(models.Genre{}, storage.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"not found"`,
		},
		{
			name:   "частичное обновление",
			method: http.MethodPatch,
			url:    "/genres/drama",
			body:   `{"name":"Драмы"}`,
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, "drama", mock.MatchedBy(func(p models.NameSlugPatch) bool {
					return p.Name != nil && *p.Name == "Драмы" && p.Slug == nil
				})).Return(models.Genre{NameSlug: models.NameSlug{Name: "Драмы", Slug: "drama"}}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"name":"Драмы"`,
		},
		{
			name:   "удаление",
			method: http.MethodDelete,
			url:    "/genres/drama",
			setupMock: func(m *MockService) {
				m.On("Delete", mock.Anything, "drama").Return(nil)
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name:   "ошибка хранилища при удалении",
			method: http.MethodDelete,
			url:    "/genres/drama",
			setupMock: func(m *MockService) {
				m.On("Delete", mock.Anything, "drama").Return(errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"internal error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(tt.method, tt.url, strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			newRouter(svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, w.Body.String(), tt.expectedBody)
			}
			svc.AssertExpectations(t)
		})
	}
}
