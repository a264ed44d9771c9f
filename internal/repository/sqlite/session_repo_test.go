package sqlite

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionInput(exerciseIDs []string, setsPerExercise int) domain.WorkoutSessionInput {
	input := domain.WorkoutSessionInput{
		LoggedAt: time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC),
		Duration: ptr(60),
		Notes:    "leg day",
	}
	for _, id := range exerciseIDs {
		ex := domain.WorkoutExerciseInput{ExerciseID: id}
		for s := 0; s < setsPerExercise; s++ {
			// Caller set numbers are ignored.
			ex.Sets = append(ex.Sets, domain.ExerciseSet{SetNumber: 99 - s, Weight: float64(100 + s), Reps: 5})
		}
		input.Exercises = append(input.Exercises, ex)
	}
	return input
}

func TestSessionRepository_CreateOrdersAndNumbers(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "a@example.com")
	squat := createApprovedExercise(t, db, "Squat", "Legs")
	deadlift := createApprovedExercise(t, db, "Deadlift", "Back")
	repo := NewSQLiteSessionRepository(db)

	input := sessionInput([]string{deadlift.ID, squat.ID, "no-such-exercise"}, 3)
	input.Exercises[0].WarmupSets = []domain.WarmupSet{
		{SetNumber: 7, Weight: 60, Reps: 5, Percentage: ptr(50.0)},
		{SetNumber: 8, Weight: 80, Reps: 3},
	}
	input.Exercises[0].MachineSettings = map[string]any{"seat": float64(4)}
	input.Exercises[1].Sets[0].RPE = ptr(8.5)
	input.Exercises[1].Sets[0].RestTime = ptr(120)

	s, err := repo.Create(ctx, user, input)
	require.NoError(t, err)
	assert.Equal(t, user, s.UserID)
	assert.Equal(t, input.LoggedAt, s.LoggedAt)
	require.NotNil(t, s.Duration)
	assert.Equal(t, 60, *s.Duration)
	assert.Equal(t, "leg day", s.Notes)

	require.Len(t, s.Exercises, 3)
	assert.Equal(t, "Deadlift", s.Exercises[0].ExerciseName)
	assert.Equal(t, "Squat", s.Exercises[1].ExerciseName)
	assert.Equal(t, domain.UnknownExerciseName, s.Exercises[2].ExerciseName)

	for i, ex := range s.Exercises {
		assert.Equal(t, i, ex.Order)
		assert.False(t, ex.IsSuperset)
		require.Len(t, ex.Sets, 3)
		for j, set := range ex.Sets {
			assert.Equal(t, j+1, set.SetNumber)
			assert.Equal(t, float64(100+j), set.Weight)
		}
	}

	require.Len(t, s.Exercises[0].WarmupSets, 2)
	assert.Equal(t, 1, s.Exercises[0].WarmupSets[0].SetNumber)
	assert.Equal(t, 2, s.Exercises[0].WarmupSets[1].SetNumber)
	require.NotNil(t, s.Exercises[0].WarmupSets[0].Percentage)
	assert.Equal(t, 50.0, *s.Exercises[0].WarmupSets[0].Percentage)
	assert.Equal(t, map[string]any{"seat": float64(4)}, s.Exercises[0].MachineSettings)
	assert.Empty(t, s.Exercises[1].WarmupSets)

	require.NotNil(t, s.Exercises[1].Sets[0].RPE)
	assert.Equal(t, 8.5, *s.Exercises[1].Sets[0].RPE)
	require.NotNil(t, s.Exercises[1].Sets[0].RestTime)
	assert.Equal(t, 120, *s.Exercises[1].Sets[0].RestTime)
}

func TestSessionRepository_CreateRollsBackOnFailure(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "a@example.com")
	repo := NewSQLiteSessionRepository(db)

	input := sessionInput([]string{"a", "b"}, 2)
	input.Exercises[1].Sets[1].Weight = -5 // Violates the CHECK constraint on the last insert

	_, err := repo.Create(context.Background(), user, input)
	require.Error(t, err)

	assert.Zero(t, countRows(t, db, "workout_sessions"))
	assert.Zero(t, countRows(t, db, "workout_exercises"))
	assert.Zero(t, countRows(t, db, "exercise_sets"))
}

func TestSessionRepository_ConcurrentCreatesDoNotInterleave(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "a@example.com")
	repo := NewSQLiteSessionRepository(db)

	const workers = 4
	ids := make([]string, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			exIDs := []string{fmt.Sprintf("w%d-a", w), fmt.Sprintf("w%d-b", w)}
			s, err := repo.Create(context.Background(), user, sessionInput(exIDs, 3))
			if assert.NoError(t, err) {
				ids[w] = s.ID
			}
		}(w)
	}
	wg.Wait()

	for w, id := range ids {
		s, err := repo.GetByID(context.Background(), id, user)
		require.NoError(t, err)
		require.Len(t, s.Exercises, 2)
		assert.Equal(t, fmt.Sprintf("w%d-a", w), s.Exercises[0].ExerciseID)
		assert.Equal(t, fmt.Sprintf("w%d-b", w), s.Exercises[1].ExerciseID)
		for _, ex := range s.Exercises {
			assert.Len(t, ex.Sets, 3)
		}
	}
	assert.Equal(t, workers*2, countRows(t, db, "workout_exercises"))
}

func TestSessionRepository_OtherUserSeesNotFound(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	a := createTestUser(t, db, "a@example.com")
	b := createTestUser(t, db, "b@example.com")
	repo := NewSQLiteSessionRepository(db)

	s, err := repo.Create(ctx, a, sessionInput([]string{"x"}, 1))
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, s.ID, b)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.GetByID(ctx, "missing", b)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.Update(ctx, s.ID, b, domain.WorkoutSessionPatch{Notes: ptr("mine now")})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	deleted, err := repo.Delete(ctx, s.ID, b)
	require.NoError(t, err)
	assert.False(t, deleted)

	own, err := repo.Ownership(ctx, s.ID, b)
	require.NoError(t, err)
	assert.Equal(t, repository.OwnershipNotOwned, own)
}

func TestSessionRepository_UpdatePatch(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "a@example.com")
	repo := NewSQLiteSessionRepository(db)

	s, err := repo.Create(ctx, user, sessionInput([]string{"x", "y"}, 2))
	require.NoError(t, err)

	same, err := repo.Update(ctx, s.ID, user, domain.WorkoutSessionPatch{})
	require.NoError(t, err)
	assert.Equal(t, s, same)

	updated, err := repo.Update(ctx, s.ID, user, domain.WorkoutSessionPatch{Duration: ptr(75)})
	require.NoError(t, err)
	require.NotNil(t, updated.Duration)
	assert.Equal(t, 75, *updated.Duration)
	assert.Equal(t, s.Notes, updated.Notes)
	assert.Equal(t, s.LoggedAt, updated.LoggedAt)
	assert.Equal(t, s.Exercises, updated.Exercises)
}

func TestSessionRepository_FindAllAndDelete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "a@example.com")
	other := createTestUser(t, db, "b@example.com")
	repo := NewSQLiteSessionRepository(db)

	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	var created []*domain.WorkoutSession
	for i := 0; i < 4; i++ {
		in := sessionInput([]string{"x"}, 1)
		in.LoggedAt = base.AddDate(0, 0, i)
		s, err := repo.Create(ctx, user, in)
		require.NoError(t, err)
		created = append(created, s)
	}
	_, err := repo.Create(ctx, other, sessionInput([]string{"x"}, 1))
	require.NoError(t, err)

	list, total, err := repo.FindAll(ctx, user, repository.SessionFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	require.Len(t, list, 2)
	assert.Equal(t, created[3].ID, list[0].ID)
	assert.Equal(t, created[2].ID, list[1].ID)
	assert.Len(t, list[0].Exercises, 1)

	from, to := base.AddDate(0, 0, 1), base.AddDate(0, 0, 2)
	list, total, err = repo.FindAll(ctx, user, repository.SessionFilter{From: &from, To: &to})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, list, 2)

	deleted, err := repo.Delete(ctx, created[0].ID, user)
	require.NoError(t, err)
	assert.True(t, deleted)
	_, err = repo.GetByID(ctx, created[0].ID, user)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Equal(t, 4, countRows(t, db, "workout_exercises"), "children cascade")
}
