package api

import (
	"net/http"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
	"alcyxob/workout-tracker/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionHandler serves workout sessions and the supersets inside them.
type SessionHandler struct {
	sessionService service.SessionService
	logger         *zap.Logger
}

func NewSessionHandler(sessionService service.SessionService, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{sessionService: sessionService, logger: logger}
}

type SessionExerciseRequest struct {
	ExerciseID      string               `json:"exerciseId"`
	Sets            []domain.ExerciseSet `json:"sets"`
	WarmupSets      []domain.WarmupSet   `json:"warmupSets"`
	MachineSettings map[string]any       `json:"machineSettings"`
	Notes           string               `json:"notes"`
}

type CreateSessionRequest struct {
	LoggedAt  *time.Time               `json:"loggedAt"`
	Duration  *int                     `json:"duration"`
	Notes     string                   `json:"notes"`
	Exercises []SessionExerciseRequest `json:"exercises"`
}

func (r CreateSessionRequest) toInput() domain.WorkoutSessionInput {
	in := domain.WorkoutSessionInput{
		Duration:  r.Duration,
		Notes:     r.Notes,
		Exercises: make([]domain.WorkoutExerciseInput, 0, len(r.Exercises)),
	}
	if r.LoggedAt != nil {
		in.LoggedAt = *r.LoggedAt
	}
	for _, ex := range r.Exercises {
		in.Exercises = append(in.Exercises, domain.WorkoutExerciseInput{
			ExerciseID:      ex.ExerciseID,
			Sets:            ex.Sets,
			WarmupSets:      ex.WarmupSets,
			MachineSettings: ex.MachineSettings,
			Notes:           ex.Notes,
		})
	}
	return in
}

type UpdateSessionRequest struct {
	LoggedAt *time.Time `json:"loggedAt"`
	Duration *int       `json:"duration"`
	Notes    *string    `json:"notes"`
}

type CreateSupersetRequest struct {
	ExerciseIDs []string             `json:"exerciseIds"`
	Sets        []domain.SupersetSet `json:"sets"`
	RestTime    *int                 `json:"restTime"`
}

// CreateSession godoc
// @Summary Record a workout session with its exercises and sets
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param session body CreateSessionRequest true "Session"
// @Success 201 {object} domain.WorkoutSession
// @Failure 400 {object} gin.H "Invalid input"
// @Router /workout-sessions [post]
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	session, err := h.sessionService.CreateSession(c.Request.Context(), userID, req.toInput())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// ListSessions godoc
// @Summary List the caller's sessions, newest first
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param from query string false "Inclusive start"
// @Param to query string false "Inclusive end"
// @Param limit query int false "Page size (default 100, max 1000)"
// @Param offset query int false "Sessions to skip"
// @Success 200 {object} service.SessionPage
// @Router /workout-sessions [get]
func (h *SessionHandler) ListSessions(c *gin.Context) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	from, to, err := q.dateRange()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	page, err := h.sessionService.ListSessions(c.Request.Context(), userID, repository.SessionFilter{
		From:   from,
		To:     to,
		Limit:  q.Limit,
		Offset: q.Offset,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetSession godoc
// @Summary Get a session with all exercises and sets
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} domain.WorkoutSession
// @Failure 404 {object} gin.H "Not found"
// @Router /workout-sessions/{id} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	session, err := h.sessionService.GetSession(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// UpdateSession godoc
// @Summary Change the date, duration or notes of a session
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Param patch body UpdateSessionRequest true "Fields to change"
// @Success 200 {object} domain.WorkoutSession
// @Router /workout-sessions/{id} [patch]
func (h *SessionHandler) UpdateSession(c *gin.Context) {
	var req UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	session, err := h.sessionService.UpdateSession(c.Request.Context(), userID, c.Param("id"), domain.WorkoutSessionPatch{
		LoggedAt: req.LoggedAt,
		Duration: req.Duration,
		Notes:    req.Notes,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// DeleteSession godoc
// @Summary Delete a session and everything in it
// @Tags Sessions
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} gin.H
// @Router /workout-sessions/{id} [delete]
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	if err := h.sessionService.DeleteSession(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CreateSuperset godoc
// @Summary Add a superset to a session
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Param superset body CreateSupersetRequest true "Superset"
// @Success 201 {object} domain.Superset
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Session not found"
// @Router /workout-sessions/{id}/supersets [post]
func (h *SessionHandler) CreateSuperset(c *gin.Context) {
	var req CreateSupersetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	superset, err := h.sessionService.CreateSuperset(c.Request.Context(), userID, c.Param("id"), domain.SupersetInput{
		ExerciseIDs: req.ExerciseIDs,
		Sets:        req.Sets,
		RestTime:    req.RestTime,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, superset)
}

// GetSuperset godoc
// @Summary Get a superset of one of the caller's sessions
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Superset ID"
// @Success 200 {object} domain.Superset
// @Failure 404 {object} gin.H "Not found"
// @Router /supersets/{id} [get]
func (h *SessionHandler) GetSuperset(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	superset, err := h.sessionService.GetSuperset(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, superset)
}
