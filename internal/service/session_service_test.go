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

func sessionWith(exerciseIDs ...string) domain.WorkoutSessionInput {
	in := domain.WorkoutSessionInput{LoggedAt: time.Date(2026, 5, 4, 18, 0, 0, 0, time.UTC)}
	for _, id := range exerciseIDs {
		in.Exercises = append(in.Exercises, domain.WorkoutExerciseInput{
			ExerciseID: id,
			Sets:       []domain.ExerciseSet{{Weight: 60, Reps: 8}, {Weight: 60, Reps: 8}},
		})
	}
	return in
}

func TestSessionService_CreateValidation(t *testing.T) {
	env := newTestEnv(t)
	userID := env.register(t, "lifter@example.com")
	ex := env.approvedExercise(t, userID, "Row")

	tests := []struct {
		name   string
		mutate func(*domain.WorkoutSessionInput)
		msg    string
	}{
		{"no logged at", func(in *domain.WorkoutSessionInput) { in.LoggedAt = time.Time{} }, "loggedAt is required"},
		{"no exercises", func(in *domain.WorkoutSessionInput) { in.Exercises = nil }, "At least one exercise is required"},
		{"exercise without sets", func(in *domain.WorkoutSessionInput) { in.Exercises[0].Sets = nil }, "Each exercise must have at least one set"},
		{"bad weight", func(in *domain.WorkoutSessionInput) { in.Exercises[0].Sets[1].Weight = 0 }, "Weight must be positive"},
		{"bad rpe", func(in *domain.WorkoutSessionInput) { in.Exercises[0].Sets[0].RPE = ptr(11.0) }, "RPE must be between 1 and 10"},
		{"bad warmup reps", func(in *domain.WorkoutSessionInput) {
			in.Exercises[0].WarmupSets = []domain.WarmupSet{{Weight: 20, Reps: 0}}
		}, "Reps must be between 1 and 100"},
		{"zero duration", func(in *domain.WorkoutSessionInput) { in.Duration = ptr(0) }, "Duration"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := sessionWith(ex.ID)
			tc.mutate(&in)
			_, err := env.sessions.CreateSession(context.Background(), userID, in)
			require.ErrorIs(t, err, ErrValidationFailed)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}

	var n int
	require.NoError(t, env.db.QueryRow(`SELECT COUNT(*) FROM workout_sessions`).Scan(&n))
	assert.Zero(t, n)
}

func TestSessionService_OtherUserSeesNotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.register(t, "owner@example.com")
	other := env.register(t, "other@example.com")
	ex := env.approvedExercise(t, owner, "Row")

	s, err := env.sessions.CreateSession(ctx, owner, sessionWith(ex.ID))
	require.NoError(t, err)

	_, err = env.sessions.GetSession(ctx, other, s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = env.sessions.UpdateSession(ctx, other, s.ID, domain.WorkoutSessionPatch{Notes: ptr("mine now")})
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, env.sessions.DeleteSession(ctx, other, s.ID), ErrSessionNotFound)

	got, err := env.sessions.GetSession(ctx, owner, s.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Notes)
}

func TestSessionService_UpdateAndDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.register(t, "lifter@example.com")
	ex := env.approvedExercise(t, userID, "Row")

	s, err := env.sessions.CreateSession(ctx, userID, sessionWith(ex.ID))
	require.NoError(t, err)

	unchanged, err := env.sessions.UpdateSession(ctx, userID, s.ID, domain.WorkoutSessionPatch{})
	require.NoError(t, err)
	assert.Equal(t, s, unchanged)

	updated, err := env.sessions.UpdateSession(ctx, userID, s.ID, domain.WorkoutSessionPatch{
		Duration: ptr(45), Notes: ptr("<em>solid</em> day"),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Duration)
	assert.Equal(t, 45, *updated.Duration)
	assert.Equal(t, "solid day", updated.Notes)
	assert.Len(t, updated.Exercises, 1)

	require.NoError(t, env.sessions.DeleteSession(ctx, userID, s.ID))
	_, err = env.sessions.GetSession(ctx, userID, s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionService_ListHasMore(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.register(t, "lifter@example.com")
	ex := env.approvedExercise(t, userID, "Row")

	for i := 0; i < 3; i++ {
		in := sessionWith(ex.ID)
		in.LoggedAt = in.LoggedAt.AddDate(0, 0, i)
		_, err := env.sessions.CreateSession(ctx, userID, in)
		require.NoError(t, err)
	}

	page, err := env.sessions.ListSessions(ctx, userID, repository.SessionFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Len(t, page.Data, 2)
	assert.True(t, page.HasMore)

	page, err = env.sessions.ListSessions(ctx, userID, repository.SessionFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)
	assert.False(t, page.HasMore)

	_, err = env.sessions.ListSessions(ctx, userID, repository.SessionFilter{Offset: -5})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func supersetFor(a, b string) domain.SupersetInput {
	return domain.SupersetInput{
		ExerciseIDs: []string{a, b},
		Sets: []domain.SupersetSet{{Exercises: []domain.SupersetExerciseData{
			{ExerciseID: a, Weight: 20, Reps: 10},
			{ExerciseID: b, Weight: 25, Reps: 12},
		}}},
	}
}

func TestSessionService_CreateSuperset(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.register(t, "owner@example.com")
	other := env.register(t, "other@example.com")
	curl := env.approvedExercise(t, owner, "Curl")
	dip := env.approvedExercise(t, owner, "Dip")

	s, err := env.sessions.CreateSession(ctx, owner, sessionWith(curl.ID))
	require.NoError(t, err)

	_, err = env.sessions.CreateSuperset(ctx, other, s.ID, supersetFor(curl.ID, dip.ID))
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = env.sessions.CreateSuperset(ctx, owner, "missing", supersetFor(curl.ID, dip.ID))
	assert.ErrorIs(t, err, ErrSessionNotFound)

	ss, err := env.sessions.CreateSuperset(ctx, owner, s.ID, supersetFor(curl.ID, dip.ID))
	require.NoError(t, err)
	assert.Equal(t, s.ID, ss.SessionID)

	got, err := env.sessions.GetSuperset(ctx, owner, ss.ID)
	require.NoError(t, err)
	assert.Equal(t, ss, got)

	_, err = env.sessions.GetSuperset(ctx, other, ss.ID)
	assert.ErrorIs(t, err, ErrSupersetNotFound)
	_, err = env.sessions.GetSuperset(ctx, owner, "missing")
	assert.ErrorIs(t, err, ErrSupersetNotFound)

	session, err := env.sessions.GetSession(ctx, owner, s.ID)
	require.NoError(t, err)
	assert.Len(t, session.Exercises, 3)
}

func TestSessionService_InvalidSupersetLeavesSessionUnchanged(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.register(t, "lifter@example.com")
	curl := env.approvedExercise(t, userID, "Curl")
	dip := env.approvedExercise(t, userID, "Dip")
	row := env.approvedExercise(t, userID, "Row")

	s, err := env.sessions.CreateSession(ctx, userID, sessionWith(curl.ID))
	require.NoError(t, err)

	mismatched := supersetFor(curl.ID, dip.ID)
	mismatched.Sets[0].Exercises[1].ExerciseID = row.ID

	tests := []struct {
		name  string
		input domain.SupersetInput
		msg   string
	}{
		{"mismatched exercise", mismatched, "Exercise ID in set does not match superset exercise IDs"},
		{"single exercise", domain.SupersetInput{
			ExerciseIDs: []string{curl.ID},
			Sets:        []domain.SupersetSet{{Exercises: []domain.SupersetExerciseData{{ExerciseID: curl.ID, Weight: 20, Reps: 10}}}},
		}, "Superset must contain 2-4 exercises"},
		{"five exercises", domain.SupersetInput{
			ExerciseIDs: []string{"a", "b", "c", "d", "e"},
		}, "Superset must contain 2-4 exercises"},
		{"no sets", domain.SupersetInput{ExerciseIDs: []string{curl.ID, dip.ID}}, "At least one set is required"},
		{"incomplete set", domain.SupersetInput{
			ExerciseIDs: []string{curl.ID, dip.ID},
			Sets:        []domain.SupersetSet{{Exercises: []domain.SupersetExerciseData{{ExerciseID: curl.ID, Weight: 20, Reps: 10}}}},
		}, "Each set must have data for all exercises"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.sessions.CreateSuperset(ctx, userID, s.ID, tc.input)
			require.ErrorIs(t, err, ErrValidationFailed)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}

	after, err := env.sessions.GetSession(ctx, userID, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s, after)

	var n int
	require.NoError(t, env.db.QueryRow(`SELECT COUNT(*) FROM supersets`).Scan(&n))
	assert.Zero(t, n)
}
