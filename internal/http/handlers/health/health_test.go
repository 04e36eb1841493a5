package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/yamdb/internal/lib/sl"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealth(t *testing.T) {
	ok := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name           string
		checks         map[string]Pinger
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "без зависимостей",
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","data":{"status":"ok"}}`,
		},
		{
			name:           "все зависимости доступны",
			checks:         map[string]Pinger{"postgres": ok, "redis": ok},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","data":{"postgres":"ok","redis":"ok","status":"ok"}}`,
		},
		{
			name:           "redis недоступен",
			checks:         map[string]Pinger{"postgres": ok, "redis": down},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `{"status":"OK","data":{"postgres":"ok","redis":"unavailable","status":"degraded"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			New(sl.Discard(), tt.checks).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}
