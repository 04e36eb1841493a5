package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/yamdb/internal/migrations"
	"github.com/magabrotheeeer/yamdb/internal/models"
)

var (
	dbOnce sync.Once
	dbDSN  string
	dbErr  error
)

// startPostgres поднимает один контейнер на весь пакет и накатывает миграции.
func startPostgres() (string, error) {
	dbOnce.Do(func() {
		ctx := context.Background()
		container, err := postgres.Run(ctx,
			"postgres:15-alpine",
			postgres.WithDatabase("testdb"),
			postgres.WithUsername("user"),
			postgres.WithPassword("password"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second),
			),
		)
		if err != nil {
			dbErr = err
			return
		}
		dbDSN, dbErr = container.ConnectionString(ctx, "sslmode=disable")
		if dbErr != nil {
			return
		}

		db, err := sql.Open("pgx", dbDSN)
		if err != nil {
			dbErr = err
			return
		}
		defer func() { _ = db.Close() }()

		root, _ := filepath.Abs("../../..")
		dbErr = migrations.Run(db, filepath.Join(root, "migrations"))
	})
	return dbDSN, dbErr
}

// setupTestDatabase возвращает хранилище над чистой базой.
func setupTestDatabase(t *testing.T) *Storage {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres integration test skipped in short mode")
	}

	dsn, err := startPostgres()
	require.NoError(t, err)

	s, err := New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	_, err = s.DB.Exec(`TRUNCATE users, categories, genres, titles, genre_title, reviews, comments RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return s
}

// TestDataFactory содержит методы для создания тестовых данных.
type TestDataFactory struct {
	t       *testing.T
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных.
func NewTestDataFactory(t *testing.T, storage *Storage) *TestDataFactory {
	return &TestDataFactory{t: t, storage: storage}
}

// CreateUser создает тестового пользователя.
func (f *TestDataFactory) CreateUser(username, role string) *models.User {
	u, err := f.storage.CreateUser(context.Background(), models.User{
		Username: username,
		Email:    username + "@example.com",
		Role:     role,
	})
	require.NoError(f.t, err)
	return u
}

// CreateCategory создает тестовую категорию.
func (f *TestDataFactory) CreateCategory(name, slug string) models.Category {
	c, err := f.storage.Categories().Create(context.Background(), models.NameSlug{Name: name, Slug: slug})
	require.NoError(f.t, err)
	return c
}

// CreateGenre создает тестовый жанр.
func (f *TestDataFactory) CreateGenre(name, slug string) models.Genre {
	g, err := f.storage.Genres().Create(context.Background(), models.NameSlug{Name: name, Slug: slug})
	require.NoError(f.t, err)
	return g
}

// CreateTitle создает тестовое произведение.
func (f *TestDataFactory) CreateTitle(name string, year int, category *string, genres ...string) *models.Title {
	title, err := f.storage.CreateTitle(context.Background(), models.TitleInput{
		Name:     name,
		Year:     year,
		Category: category,
		Genre:    genres,
	})
	require.NoError(f.t, err)
	return title
}

// CreateReview создает тестовый отзыв.
func (f *TestDataFactory) CreateReview(titleID int64, author *models.User, score int) *models.Review {
	r, err := f.storage.CreateReview(context.Background(), models.Review{
		TitleID:  titleID,
		AuthorID: author.ID,
		Score:    score,
		TextDate: models.TextDate{Text: "review by " + author.Username},
	})
	require.NoError(f.t, err)
	return r
}

func ptr[T any](v T) *T {
	return &v
}
