package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"alcyxob/workout-tracker/internal/repository/sqlite"
	"alcyxob/workout-tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const adminEmail = "admin@example.com"

type testServer struct {
	t      *testing.T
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sqlite.OpenDB(":memory:", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.Migrate(context.Background(), db))

	logger := zap.NewNop()
	exerciseRepo := sqlite.NewSQLiteExerciseRepository(db)
	svc := Services{
		Auth: service.NewAuthService(sqlite.NewSQLiteUserRepository(db), "api-test-secret", time.Hour,
			service.AuthOptions{BcryptCost: bcrypt.MinCost, AdminEmails: []string{adminEmail}}, logger),
		Exercise: service.NewExerciseService(exerciseRepo, nil, logger),
		Workout:  service.NewWorkoutService(sqlite.NewSQLiteWorkoutLogRepository(db), exerciseRepo, logger),
		Session: service.NewSessionService(sqlite.NewSQLiteSessionRepository(db),
			sqlite.NewSQLiteSupersetRepository(db), logger),
		HealthCheck: db.PingContext,
	}

	router := gin.New()
	router.Use(RequestLogger(logger), gin.Recovery())
	SetupRoutes(router, svc, logger)
	return &testServer{t: t, router: router}
}

// do sends a JSON request and decodes the response body into out when out is not nil.
func (s *testServer) do(method, path, token string, body any, out any) int {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if out != nil {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec.Code
}

// register creates an account and returns its token and id.
func (s *testServer) register(email string) (string, string) {
	s.t.Helper()
	var resp AuthResponse
	code := s.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email": email, "password": "password123", "passwordConfirm": "password123",
	}, &resp)
	require.Equal(s.t, http.StatusCreated, code)
	return resp.Token, resp.User.ID
}

// approvedExercise submits an exercise and has the admin approve it.
func (s *testServer) approvedExercise(userToken, adminToken, name string) string {
	s.t.Helper()
	var created map[string]any
	code := s.do(http.MethodPost, "/api/v1/exercises", userToken, gin.H{
		"name": name, "category": "Strength", "muscleGroups": []string{"Legs"},
	}, &created)
	require.Equal(s.t, http.StatusCreated, code)
	id := created["id"].(string)

	code = s.do(http.MethodPost, "/api/v1/exercises/"+id+"/approve", adminToken, nil, nil)
	require.Equal(s.t, http.StatusOK, code)
	return id
}

type errorBody struct {
	Error string `json:"error"`
}
