package sqlite

import (
	"context"
	"database/sql"
	"testing"

	"alcyxob/workout-tracker/internal/domain"

	"github.com/stretchr/testify/require"
)

// newTestDB opens a migrated in-memory database that is closed with the test.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(context.Background(), db))
	return db
}

func createTestUser(t *testing.T, db *sql.DB, email string) string {
	t.Helper()
	id, err := NewSQLiteUserRepository(db).Create(context.Background(), &domain.User{
		Email:        email,
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	return id
}

// createApprovedExercise inserts a catalog entry and approves it.
func createApprovedExercise(t *testing.T, db *sql.DB, name string, groups ...string) *domain.Exercise {
	t.Helper()
	repo := NewSQLiteExerciseRepository(db)
	ex, err := repo.Create(context.Background(), "", domain.ExerciseInput{
		Name: name, Category: "Strength", MuscleGroups: groups,
	})
	require.NoError(t, err)
	ex, err = repo.Approve(context.Background(), ex.ID, "")
	require.NoError(t, err)
	return ex
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}

func ptr[T any](v T) *T { return &v }
