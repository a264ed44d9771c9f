package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository/sqlite"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

type testEnv struct {
	db        *sql.DB
	auth      AuthService
	exercises ExerciseService
	workouts  WorkoutService
	sessions  SessionService
	storage   *fakeStorage
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := sqlite.OpenDB(":memory:", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.Migrate(context.Background(), db))

	logger := zap.NewNop()
	users := sqlite.NewSQLiteUserRepository(db)
	exerciseRepo := sqlite.NewSQLiteExerciseRepository(db)
	fs := newFakeStorage()

	return &testEnv{
		db: db,
		auth: NewAuthService(users, testSecret, time.Hour, AuthOptions{
			BcryptCost:  bcrypt.MinCost,
			AdminEmails: []string{"Admin@Example.com"},
		}, logger),
		exercises: NewExerciseService(exerciseRepo, fs, logger),
		workouts:  NewWorkoutService(sqlite.NewSQLiteWorkoutLogRepository(db), exerciseRepo, logger),
		sessions:  NewSessionService(sqlite.NewSQLiteSessionRepository(db), sqlite.NewSQLiteSupersetRepository(db), logger),
		storage:   fs,
	}
}

// register creates a user and returns its id.
func (e *testEnv) register(t *testing.T, email string) string {
	t.Helper()
	_, user, err := e.auth.Register(context.Background(), email, "password123")
	require.NoError(t, err)
	return user.ID
}

// approvedExercise creates an exercise through the service and approves it.
func (e *testEnv) approvedExercise(t *testing.T, userID, name string) *domain.Exercise {
	t.Helper()
	ex, err := e.exercises.CreateExercise(context.Background(), userID, domain.ExerciseInput{
		Name: name, Category: "Strength", MuscleGroups: []string{"Legs"},
	})
	require.NoError(t, err)
	ex, err = e.exercises.ApproveExercise(context.Background(), ex.ID, userID)
	require.NoError(t, err)
	return ex
}

// fakeStorage records calls instead of talking to a bucket.
type fakeStorage struct {
	mu      sync.Mutex
	deleted []string
}

func newFakeStorage() *fakeStorage { return &fakeStorage{} }

func (f *fakeStorage) GeneratePresignedUploadURL(_ context.Context, key, _ string, _ time.Duration) (string, error) {
	return "https://bucket.test/upload/" + key, nil
}

func (f *fakeStorage) GeneratePresignedDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://bucket.test/download/" + key, nil
}

func (f *fakeStorage) DeleteObject(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	return nil
}

func ptr[T any](v T) *T { return &v }
