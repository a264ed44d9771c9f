package api

import (
	"net/http"
	"testing"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionBody(exerciseIDs ...string) gin.H {
	exercises := make([]gin.H, 0, len(exerciseIDs))
	for _, id := range exerciseIDs {
		exercises = append(exercises, gin.H{
			"exerciseId": id,
			"sets": []gin.H{
				{"setNumber": 7, "weight": 80, "reps": 5, "rpe": 8},
				{"weight": 80, "reps": 5},
			},
			"warmupSets": []gin.H{{"weight": 40, "reps": 10, "percentage": 50}},
		})
	}
	return gin.H{"loggedAt": "2026-04-01T17:30:00Z", "duration": 60, "exercises": exercises}
}

func TestSessionHandler_Lifecycle(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register("user@example.com")
	adminToken, _ := s.register(adminEmail)
	otherToken, _ := s.register("other@example.com")
	squat := s.approvedExercise(token, adminToken, "Squat")

	var created domain.WorkoutSession
	require.Equal(t, http.StatusCreated,
		s.do(http.MethodPost, "/api/v1/workout-sessions", token, sessionBody(squat, "not-in-catalog"), &created))
	require.Len(t, created.Exercises, 2)
	assert.Equal(t, "Squat", created.Exercises[0].ExerciseName)
	assert.Equal(t, domain.UnknownExerciseName, created.Exercises[1].ExerciseName)
	assert.Equal(t, 1, created.Exercises[0].Sets[0].SetNumber)
	assert.Equal(t, 2, created.Exercises[0].Sets[1].SetNumber)
	require.Len(t, created.Exercises[0].WarmupSets, 1)
	assert.Equal(t, 1, created.Exercises[0].WarmupSets[0].SetNumber)

	var body errorBody
	assert.Equal(t, http.StatusBadRequest,
		s.do(http.MethodPost, "/api/v1/workout-sessions", token,
			gin.H{"loggedAt": "2026-04-01T17:30:00Z", "exercises": []gin.H{}}, &body))
	assert.Equal(t, "At least one exercise is required", body.Error)

	noDate := sessionBody(squat)
	delete(noDate, "loggedAt")
	assert.Equal(t, http.StatusBadRequest,
		s.do(http.MethodPost, "/api/v1/workout-sessions", token, noDate, &body))
	assert.Equal(t, "loggedAt is required", body.Error)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/v1/workout-sessions/"+created.ID, otherToken, nil, nil))
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, "/api/v1/workout-sessions/"+created.ID, otherToken, nil, nil))

	var updated domain.WorkoutSession
	require.Equal(t, http.StatusOK, s.do(http.MethodPatch, "/api/v1/workout-sessions/"+created.ID, token,
		gin.H{"notes": "heavy"}, &updated))
	assert.Equal(t, "heavy", updated.Notes)
	require.NotNil(t, updated.Duration)
	assert.Equal(t, 60, *updated.Duration)

	var page service.SessionPage
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/v1/workout-sessions?limit=1", token, nil, &page))
	assert.Equal(t, 1, page.Total)
	assert.False(t, page.HasMore)
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/v1/workout-sessions", otherToken, nil, &page))
	assert.Equal(t, 0, page.Total)
	assert.NotNil(t, page.Data)

	require.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/api/v1/workout-sessions/"+created.ID, token, nil, nil))
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/v1/workout-sessions/"+created.ID, token, nil, nil))
}

func TestSessionHandler_Supersets(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register("user@example.com")
	adminToken, _ := s.register(adminEmail)
	otherToken, _ := s.register("other@example.com")
	curl := s.approvedExercise(token, adminToken, "Curl")
	dip := s.approvedExercise(token, adminToken, "Dip")

	var session domain.WorkoutSession
	require.Equal(t, http.StatusCreated,
		s.do(http.MethodPost, "/api/v1/workout-sessions", token, sessionBody(curl), &session))
	path := "/api/v1/workout-sessions/" + session.ID + "/supersets"

	valid := gin.H{
		"exerciseIds": []string{curl, dip},
		"restTime":    60,
		"sets": []gin.H{{"exercises": []gin.H{
			{"exerciseId": curl, "weight": 15, "reps": 10},
			{"exerciseId": dip, "weight": 10, "reps": 12},
		}}},
	}
	mismatched := gin.H{
		"exerciseIds": []string{curl, dip},
		"sets": []gin.H{{"exercises": []gin.H{
			{"exerciseId": curl, "weight": 15, "reps": 10},
			{"exerciseId": "other", "weight": 10, "reps": 12},
		}}},
	}

	var body errorBody
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, path, token, mismatched, &body))
	assert.Equal(t, "Exercise ID in set does not match superset exercise IDs", body.Error)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPost, path, otherToken, valid, nil))

	var superset domain.Superset
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, path, token, valid, &superset))
	assert.Equal(t, session.ID, superset.SessionID)
	require.Len(t, superset.Sets, 1)
	assert.Equal(t, 1, superset.Sets[0].SetNumber)

	var got domain.Superset
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/v1/supersets/"+superset.ID, token, nil, &got))
	assert.Equal(t, superset.ID, got.ID)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/v1/supersets/"+superset.ID, otherToken, nil, nil))

	var after domain.WorkoutSession
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/v1/workout-sessions/"+session.ID, token, nil, &after))
	require.Len(t, after.Exercises, 3)
	assert.True(t, after.Exercises[1].IsSuperset)
	assert.True(t, after.Exercises[2].IsSuperset)
}
