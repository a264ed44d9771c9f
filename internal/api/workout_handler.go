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

// WorkoutHandler serves flat workout logs.
type WorkoutHandler struct {
	workoutService service.WorkoutService
	logger         *zap.Logger
}

func NewWorkoutHandler(workoutService service.WorkoutService, logger *zap.Logger) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService, logger: logger}
}

// Range and size checks live in the service so their messages stay consistent.
type CreateWorkoutRequest struct {
	ExerciseID string     `json:"exerciseId" binding:"required"`
	Weight     float64    `json:"weight"`
	Reps       int        `json:"reps"`
	Sets       int        `json:"sets"`
	Notes      string     `json:"notes"`
	LoggedAt   *time.Time `json:"loggedAt"`
}

type UpdateWorkoutRequest struct {
	Weight   *float64   `json:"weight"`
	Reps     *int       `json:"reps"`
	Sets     *int       `json:"sets"`
	Notes    *string    `json:"notes"`
	LoggedAt *time.Time `json:"loggedAt"`
}

type listWorkoutsQuery struct {
	pageQuery
	ExerciseID string `form:"exerciseId"`
}

type WorkoutListResponse struct {
	Data  []domain.WorkoutLog `json:"data"`
	Total int                 `json:"total"`
}

// CreateWorkout godoc
// @Summary Log a single-exercise workout
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workout body CreateWorkoutRequest true "Workout"
// @Success 201 {object} domain.WorkoutLog
// @Failure 400 {object} gin.H "Invalid input"
// @Router /workouts [post]
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	var req CreateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	w, err := h.workoutService.CreateWorkout(c.Request.Context(), userID, domain.WorkoutLogInput{
		ExerciseID: req.ExerciseID,
		Weight:     req.Weight,
		Reps:       req.Reps,
		Sets:       req.Sets,
		Notes:      req.Notes,
		LoggedAt:   req.LoggedAt,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, w)
}

// ListWorkouts godoc
// @Summary List the caller's workout logs, newest first
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param exerciseId query string false "Exercise ID"
// @Param from query string false "Inclusive start"
// @Param to query string false "Inclusive end"
// @Param limit query int false "Page size (default 100, max 1000)"
// @Param offset query int false "Rows to skip"
// @Success 200 {object} WorkoutListResponse
// @Router /workouts [get]
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	var q listWorkoutsQuery
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

	list, total, err := h.workoutService.ListWorkouts(c.Request.Context(), userID, repository.WorkoutLogFilter{
		ExerciseID: q.ExerciseID,
		From:       from,
		To:         to,
		Limit:      q.Limit,
		Offset:     q.Offset,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, WorkoutListResponse{Data: list, Total: total})
}

// GetWorkout godoc
// @Summary Get one workout log
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Success 200 {object} domain.WorkoutLog
// @Failure 403 {object} gin.H "Owned by another user"
// @Failure 404 {object} gin.H "Not found"
// @Router /workouts/{id} [get]
func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	w, err := h.workoutService.GetWorkout(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

// UpdateWorkout godoc
// @Summary Change fields of a workout log
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Param patch body UpdateWorkoutRequest true "Fields to change"
// @Success 200 {object} domain.WorkoutLog
// @Router /workouts/{id} [patch]
func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	var req UpdateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	w, err := h.workoutService.UpdateWorkout(c.Request.Context(), userID, c.Param("id"), domain.WorkoutLogPatch{
		Weight:   req.Weight,
		Reps:     req.Reps,
		Sets:     req.Sets,
		Notes:    req.Notes,
		LoggedAt: req.LoggedAt,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

// DeleteWorkout godoc
// @Summary Delete a workout log
// @Tags Workouts
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Success 200 {object} gin.H
// @Router /workouts/{id} [delete]
func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	if err := h.workoutService.DeleteWorkout(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
