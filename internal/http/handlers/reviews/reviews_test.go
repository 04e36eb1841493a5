package reviews

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/yamdb/internal/http/middlewarectx"
	"github.com/magabrotheeeer/yamdb/internal/lib/sl"
	"github.com/magabrotheeeer/yamdb/internal/models"
	"github.com/magabrotheeeer/yamdb/internal/permissions"
	"github.com/magabrotheeeer/yamdb/internal/services"
	"github.com/magabrotheeeer/yamdb/internal/storage"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) ListReviews(ctx context.Context, titleID int64, page models.Page) (models.List[models.Review], error) {
	args := m.Called(ctx, titleID, page)
	return args.Get(0).(models.List[models.Review]), args.Error(1)
}

func (m *MockService) GetReview(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	args := m.Called(ctx, titleID, reviewID)
	r, _ := args.Get(0).(*models.Review)
	return r, args.Error(1)
}

func (m *MockService) CreateReview(ctx context.Context, actor *models.User, titleID int64, text string, score int) (*models.Review, error) {
	args := m.Called(ctx, actor, titleID, text, score)
	r, _ := args.Get(0).(*models.Review)
	return r, args.Error(1)
}

func (m *MockService) UpdateReview(ctx context.Context, actor *models.User, titleID, reviewID int64, patch models.ReviewPatch) (*models.Review, error) {
	args := m.Called(ctx, actor, titleID, reviewID, patch)
	r, _ := args.Get(0).(*models.Review)
	return r, args.Error(1)
}

func (m *MockService) DeleteReview(ctx context.Context, actor *models.User, titleID, reviewID int64) error {
	return m.Called(ctx, actor, titleID, reviewID).Error(0)
}

var bob = &models.User{ID: 2, Username: "bob", Role: models.RoleUser}

func review() *models.Review {
	return &models.Review{
		ID: 5, TitleID: 1, AuthorID: bob.ID, Author: bob.Username, Score: 9,
		TextDate: models.TextDate{Text: "Шедевр", PubDate: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
	}
}

func newRouter(svc *MockService, actor *models.User) http.Handler {
	h := New(sl.Discard(), svc)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middlewarectx.WithActor(req.Context(), actor)))
		})
	})
	r.Route("/titles/{title_id}/reviews", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{review_id}", h.Get)
		r.Patch("/{review_id}", h.Update)
		r.Delete("/{review_id}", h.Delete)
	})
	return r
}

func TestReviewsHandlers(t *testing.T) {
	tests := []struct {
		name           string
		actor          *models.User
		method         string
		url            string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:   "список отзывов",
			method: http.MethodGet,
			url:    "/titles/1/reviews/",
			setupMock: func(m *MockService) {
				m.On("ListReviews", mock.Anything, int64(1), models.Page{Limit: models.DefaultLimit}).
					Return(models.List[models.Review]{Count: 1, Results: []models.Review{*review()}}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"author":"bob"`,
		},
		{
			name:   "список отзывов несуществующего произведения",
			method: http.MethodGet,
			url:    "/titles/99/reviews/",
			setupMock: func(m *MockService) {
				m.On("ListReviews", mock.Anything, int64(99), mock.Anything).
					Return(models.List[models.Review]{}, storage.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:   "создание отзыва",
			actor:  bob,
			method: http.MethodPost,
			url:    "/titles/1/reviews/",
			body:   `{"text":"Шедевр","score":9}`,
			setupMock: func(m *MockService) {
				m.On("CreateReview", mock.Anything, bob, int64(1), "Шедевр", 9).Return(review(), nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"score":9`,
		},
		{
			name:           "оценка вне диапазона",
			actor:          bob,
			method:         http.MethodPost,
			url:            "/titles/1/reviews/",
			body:           `{"text":"Плохо","score":11}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"score"`,
		},
		{
			name:   "повторный отзыв",
			actor:  bob,
			method: http.MethodPost,
			url:    "/titles/1/reviews/",
			body:   `{"text":"Ещё раз","score":5}`,
			setupMock: func(m *MockService) {
				m.On("CreateReview", mock.Anything, bob, int64(1), "Ещё раз", 5).
					Return(nil, fmt.Errorf("reviews.CreateReview: %w", services.NewValidationError("title", "you have already reviewed this title")))
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"title":"you have already reviewed this title"`,
		},
		{
			name:   "чужой отзыв",
			actor:  &models.User{ID: 3, Username: "eve", Role: models.RoleUser},
			method: http.MethodPatch,
			url:    "/titles/1/reviews/5",
			body:   `{"score":1}`,
			setupMock: func(m *MockService) {
				m.On("UpdateReview", mock.Anything, mock.Anything, int64(1), int64(5), mock.Anything).
					Return(nil, fmt.Errorf("reviews.UpdateReview: %w", permissions.ErrForbidden))
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:   "отзыв другого произведения",
			method: http.MethodGet,
			url:    "/titles/2/reviews/5",
			setupMock: func(m *MockService) {
				m.On("GetReview", mock.Anything, int64(2), int64(5)).Return(nil, storage.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:   "удаление автором",
			actor:  bob,
			method: http.MethodDelete,
			url:    "/titles/1/reviews/5",
			setupMock: func(m *MockService) {
				m.On("DeleteReview", mock.Anything, bob, int64(1), int64(5)).Return(nil)
			},
			expectedStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(tt.method, tt.url, strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			newRouter(svc, tt.actor).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, w.Body.String(), tt.expectedBody)
			}
			svc.AssertExpectations(t)
		})
	}
}
