package service

import (
	"context"
	"testing"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countWorkoutLogs(t *testing.T, env *testEnv) int {
	t.Helper()
	var n int
	require.NoError(t, env.db.QueryRow(`SELECT COUNT(*) FROM workout_logs`).Scan(&n))
	return n
}

func TestWorkoutService_CreateValidatesBeforeWriting(t *testing.T) {
	env := newTestEnv(t)
	userID := env.register(t, "lifter@example.com")
	ex := env.approvedExercise(t, userID, "Squat")

	tests := []struct {
		name  string
		input domain.WorkoutLogInput
		msg   string
	}{
		{"zero weight", domain.WorkoutLogInput{ExerciseID: ex.ID, Weight: 0, Reps: 5}, "Weight must be positive"},
		{"negative weight", domain.WorkoutLogInput{ExerciseID: ex.ID, Weight: -10, Reps: 5}, "Weight must be positive"},
		{"zero reps", domain.WorkoutLogInput{ExerciseID: ex.ID, Weight: 100, Reps: 0}, "Reps must be between 1 and 100"},
		{"too many reps", domain.WorkoutLogInput{ExerciseID: ex.ID, Weight: 100, Reps: 101}, "Reps must be between 1 and 100"},
		{"missing exercise", domain.WorkoutLogInput{Weight: 100, Reps: 5}, "Exercise ID is required"},
		{"unknown exercise", domain.WorkoutLogInput{ExerciseID: "nope", Weight: 100, Reps: 5}, "Exercise does not exist"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.workouts.CreateWorkout(context.Background(), userID, tc.input)
			require.ErrorIs(t, err, ErrValidationFailed)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
	assert.Zero(t, countWorkoutLogs(t, env))
}

func TestWorkoutService_CreateSanitizesNotes(t *testing.T) {
	env := newTestEnv(t)
	userID := env.register(t, "lifter@example.com")
	ex := env.approvedExercise(t, userID, "Squat")

	w, err := env.workouts.CreateWorkout(context.Background(), userID, domain.WorkoutLogInput{
		ExerciseID: ex.ID, Weight: 100, Reps: 5, Notes: `<img src=x onerror=alert(1)>felt good`,
	})
	require.NoError(t, err)
	assert.Equal(t, "felt good", w.Notes)
	assert.Equal(t, 1, w.Sets)
}

func TestWorkoutService_OwnershipErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.register(t, "owner@example.com")
	other := env.register(t, "other@example.com")
	ex := env.approvedExercise(t, owner, "Squat")

	w, err := env.workouts.CreateWorkout(ctx, owner, domain.WorkoutLogInput{ExerciseID: ex.ID, Weight: 100, Reps: 5})
	require.NoError(t, err)

	_, err = env.workouts.GetWorkout(ctx, other, w.ID)
	assert.ErrorIs(t, err, ErrAccessDenied)
	_, err = env.workouts.UpdateWorkout(ctx, other, w.ID, domain.WorkoutLogPatch{Reps: ptr(6)})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.ErrorIs(t, env.workouts.DeleteWorkout(ctx, other, w.ID), ErrAccessDenied)

	_, err = env.workouts.GetWorkout(ctx, owner, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, env.workouts.DeleteWorkout(ctx, owner, "missing"), ErrWorkoutNotFound)

	got, err := env.workouts.GetWorkout(ctx, owner, w.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Reps)
}

func TestWorkoutService_UpdateAndDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.register(t, "lifter@example.com")
	ex := env.approvedExercise(t, userID, "Squat")

	w, err := env.workouts.CreateWorkout(ctx, userID, domain.WorkoutLogInput{ExerciseID: ex.ID, Weight: 100, Reps: 5})
	require.NoError(t, err)

	_, err = env.workouts.UpdateWorkout(ctx, userID, w.ID, domain.WorkoutLogPatch{Reps: ptr(0)})
	assert.ErrorIs(t, err, ErrValidationFailed)

	updated, err := env.workouts.UpdateWorkout(ctx, userID, w.ID, domain.WorkoutLogPatch{
		Weight: ptr(105.5), Notes: ptr("<b>pr</b>"),
	})
	require.NoError(t, err)
	assert.Equal(t, 105.5, updated.Weight)
	assert.Equal(t, 5, updated.Reps)
	assert.Equal(t, "pr", updated.Notes)

	require.NoError(t, env.workouts.DeleteWorkout(ctx, userID, w.ID))
	_, err = env.workouts.GetWorkout(ctx, userID, w.ID)
	assert.ErrorIs(t, err, ErrWorkoutNotFound)
}

func TestWorkoutService_List(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.register(t, "lifter@example.com")
	other := env.register(t, "other@example.com")
	ex := env.approvedExercise(t, userID, "Squat")

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		at := base.AddDate(0, 0, i)
		_, err := env.workouts.CreateWorkout(ctx, userID, domain.WorkoutLogInput{
			ExerciseID: ex.ID, Weight: 100, Reps: 5 + i, LoggedAt: &at,
		})
		require.NoError(t, err)
	}
	_, err := env.workouts.CreateWorkout(ctx, other, domain.WorkoutLogInput{ExerciseID: ex.ID, Weight: 50, Reps: 5})
	require.NoError(t, err)

	list, total, err := env.workouts.ListWorkouts(ctx, userID, repository.WorkoutLogFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, list, 2)
	assert.Equal(t, 7, list[0].Reps)

	from, to := base.AddDate(0, 0, 1), base
	_, _, err = env.workouts.ListWorkouts(ctx, userID, repository.WorkoutLogFilter{From: &from, To: &to})
	assert.ErrorIs(t, err, ErrValidationFailed)
	_, _, err = env.workouts.ListWorkouts(ctx, userID, repository.WorkoutLogFilter{Offset: -1})
	assert.ErrorIs(t, err, ErrValidationFailed)
}
