package migrations

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func getTestDB(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres integration test skipped in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
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
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = db.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})
	return db
}

func getMigrationsPath(t *testing.T) string {
	projectRoot, err := filepath.Abs("../..")
	require.NoError(t, err)
	return filepath.Join(projectRoot, "migrations")
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var exists bool
	err := db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = $1
		)`, name).Scan(&exists)
	require.NoError(t, err)
	return exists
}

func TestRunMigrations(t *testing.T) {
	db := getTestDB(t)

	require.NoError(t, Run(db, getMigrationsPath(t)))

	for _, table := range []string{"users", "categories", "genres", "titles", "genre_title", "reviews", "comments"} {
		require.True(t, tableExists(t, db, table), "table %s should exist", table)
	}

	var exists bool
	err := db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM pg_constraint WHERE conname = 'unique_title_review'
		)`).Scan(&exists)
	require.NoError(t, err)
	require.True(t, exists, "unique review constraint should exist")
}

func TestRunMigrations_ScoreCheck(t *testing.T) {
	db := getTestDB(t)
	require.NoError(t, Run(db, getMigrationsPath(t)))

	_, err := db.Exec(`INSERT INTO users (username, email) VALUES ('bob', 'bob@example.com')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO titles (name, year) VALUES ('Dune', 1965)`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO reviews (title_id, author_id, text, score) VALUES (1, 1, 'meh', 11)`)
	require.Error(t, err)
	_, err = db.Exec(`INSERT INTO reviews (title_id, author_id, text, score) VALUES (1, 1, 'good', 8)`)
	require.NoError(t, err)
}

func TestMigrationIdempotency(t *testing.T) {
	db := getTestDB(t)
	path := getMigrationsPath(t)

	require.NoError(t, Run(db, path))
	require.NoError(t, Run(db, path))
}

func TestRunMigrations_BadPath(t *testing.T) {
	db := getTestDB(t)
	require.Error(t, Run(db, filepath.Join(t.TempDir(), "missing")))
}
