package comments

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/yamdb/internal/http/middlewarectx"
	"github.com/magabrotheeeer/yamdb/internal/lib/sl"
	"github.com/magabrotheeeer/yamdb/internal/models"
	"github.com/magabrotheeeer/yamdb/internal/permissions"
	"github.com/magabrotheeeer/yamdb/internal/storage"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) ListComments(ctx context.Context, titleID, reviewID int64, page models.Page) (models.List[models.Comment], error) {
	args := m.Called(ctx, titleID, reviewID, page)
	return args.Get(0).(models.List[models.Comment]), args.Error(1)
}

func (m *MockService) GetComment(ctx context.Context, titleID, reviewID, commentID int64) (*models.Comment, error) {
	args := m.Called(ctx, titleID, reviewID, commentID)
	c, _ := args.Get(0).(*models.Comment)
	return c, args.Error(1)
}

func (m *MockService) CreateComment(ctx context.Context, actor *models.User, titleID, reviewID int64, text string) (*models.Comment, error) {
	args := m.Called(ctx, actor, titleID, reviewID, text)
	c, _ := args.Get(0).(*models.Comment)
	return c, args.Error(1)
}

func (m *MockService) UpdateComment(ctx context.Context, actor *models.User, titleID, reviewID, commentID int64, text *string) (*models.Comment, error) {
	args := m.Called(ctx, actor, titleID, reviewID, commentID, text)
	c, _ := args.Get(0).(*models.Comment)
	return c, args.Error(1)
}

func (m *MockService) DeleteComment(ctx context.Context, actor *models.User, titleID, reviewID, commentID int64) error {
	return m.Called(ctx, actor, titleID, reviewID, commentID).Error(0)
}

func newRouter(svc *MockService, actor *models.User) http.Handler {
	h := New(sl.Discard(), svc)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middlewarectx.WithActor(req.Context(), actor)))
		})
	})
	r.Route("/titles/{title_id}/reviews/{review_id}/comments", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{comment_id}", h.Get)
		r.Patch("/{comment_id}", h.Update)
		r.Delete("/{comment_id}", h.Delete)
	})
	return r
}

func TestCommentsHandlers(t *testing.T) {
	alice := &models.User{ID: 1, Username: "alice", Role: models.RoleUser}
	moderator := &models.User{ID: 9, Username: "mod", Role: models.RoleModerator}
	comment := &models.Comment{ID: 3, ReviewID: 5, AuthorID: alice.ID, Author: "alice", TextDate: models.TextDate{Text: "Согласен"}}

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
			name:   "список комментариев",
			method: http.MethodGet,
			url:    "/titles/1/reviews/5/comments/?limit=2",
			setupMock: func(m *MockService) {
				m.On("ListComments", mock.Anything, int64(1), int64(5), models.Page{Limit: 2}).
					Return(models.List[models.Comment]{Count: 1, Results: []models.Comment{*comment}}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"text":"Согласен"`,
		},
		{
			name:   "создание комментария",
			actor:  alice,
			method: http.MethodPost,
			url:    "/titles/1/reviews/5/comments/",
			body:   `{"text":"Согласен"}`,
			setupMock: func(m *MockService) {
				m.On("CreateComment", mock.Anything, alice, int64(1), int64(5), "Согласен").Return(comment, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"author":"alice"`,
		},
		{
			name:           "пустой текст",
			actor:          alice,
			method:         http.MethodPost,
			url:            "/titles/1/reviews/5/comments/",
			body:           `{"text":""}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"text":"This field is required."`,
		},
		{
			name:   "отзыв не принадлежит произведению",
			method: http.MethodGet,
			url:    "/titles/2/reviews/5/comments/3",
			setupMock: func(m *MockService) {
				m.On("GetComment", mock.Anything, int64(2), int64(5), int64(3)).Return(nil, storage.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:   "модератор правит чужой комментарий",
			actor:  moderator,
			method: http.MethodPatch,
			url:    "/titles/1/reviews/5/comments/3",
			body:   `{"text":"Отредактировано"}`,
			setupMock: func(m *MockService) {
				m.On("UpdateComment", mock.Anything, moderator, int64(1), int64(5), int64(3), mock.MatchedBy(func(s *string) bool {
					return s != nil && *s == "Отредактировано"
				})).Return(&models.Comment{ID: 3, Author: "alice", TextDate: models.TextDate{Text: "Отредактировано"}}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"text":"Отредактировано"`,
		},
		{
			name:   "аноним удаляет",
			method: http.MethodDelete,
			url:    "/titles/1/reviews/5/comments/3",
			setupMock: func(m *MockService) {
				m.On("DeleteComment", mock.Anything, (*models.User)(nil), int64(1), int64(5), int64(3)).
					Return(fmt.Errorf("reviews.DeleteComment: %w", permissions.ErrUnauthenticated))
			},
			expectedStatus: http.StatusUnauthorized,
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
