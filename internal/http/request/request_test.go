package request

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/yamdb/internal/models"
	"github.com/magabrotheeeer/yamdb/internal/storage"
)

func withParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestDecode(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Книги"}`))
	require.NoError(t, Decode(r, &dst))
	assert.Equal(t, "Книги", dst.Name)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	assert.Error(t, Decode(r, &dst))

	r = httptest.NewRequest(http.MethodPost, "/", nil)
	assert.ErrorIs(t, Decode(r, &dst), ErrEmptyBody)
}

func TestID(t *testing.T) {
	id, err := ID(withParam(httptest.NewRequest(http.MethodGet, "/", nil), "title_id", "42"), "title_id")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"abc", "-1", "0", ""} {
		_, err = ID(withParam(httptest.NewRequest(http.MethodGet, "/", nil), "title_id", raw), "title_id")
		assert.ErrorIs(t, err, storage.ErrNotFound, raw)
	}
}

func TestPage(t *testing.T) {
	tests := []struct {
		query string
		want  models.Page
	}{
		{query: "", want: models.Page{Limit: models.DefaultLimit}},
		{query: "?limit=5&offset=10", want: models.Page{Limit: 5, Offset: 10}},
		{query: "?limit=1000", want: models.Page{Limit: models.MaxLimit}},
		{query: "?limit=abc&offset=-4", want: models.Page{Limit: models.DefaultLimit}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, Page(httptest.NewRequest(http.MethodGet, "/"+tt.query, nil)))
		})
	}
}

func TestSearch(t *testing.T) {
	assert.Equal(t, "drama", Search(httptest.NewRequest(http.MethodGet, "/?search=+drama+", nil)))
}
