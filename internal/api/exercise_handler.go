package api

import (
	"net/http"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
	"alcyxob/workout-tracker/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ExerciseHandler holds the exercise service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
	logger          *zap.Logger
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService, logger *zap.Logger) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService, logger: logger}
}

// --- DTOs for API (Data Transfer Objects) ---

// CreateExerciseRequest defines the expected JSON for creating an exercise.
type CreateExerciseRequest struct {
	Name         string   `json:"name" binding:"required,max=100"`
	Category     string   `json:"category" binding:"required,max=50"`
	MuscleGroups []string `json:"muscleGroups" binding:"required,min=1"`
}

type ListExercisesQuery struct {
	Search      string `form:"search" binding:"max=100"`
	MuscleGroup string `form:"muscleGroup" binding:"max=50"`
	Status      string `form:"status"`
}

type MediaUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type MediaUploadResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

// ExerciseResponse is an exercise with a presigned link to its media, when it has any.
type ExerciseResponse struct {
	domain.Exercise
	MediaURL string `json:"mediaUrl,omitempty"`
}

// --- Handler Methods ---

// ListExercises godoc
// @Summary List catalog exercises
// @Description Approved exercises plus the caller's own pending ones, unless status is given.
// @Tags Exercises
// @Produce json
// @Param search query string false "Name substring"
// @Param muscleGroup query string false "Muscle group"
// @Param status query string false "pending, approved or rejected"
// @Success 200 {array} domain.Exercise
// @Router /exercises [get]
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	var q ListExercisesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	callerID, _ := getUserIDFromContext(c) // anonymous callers see approved rows only

	exercises, err := h.exerciseService.ListExercises(c.Request.Context(), repository.ExerciseFilter{
		Search:      q.Search,
		MuscleGroup: q.MuscleGroup,
		Status:      domain.ExerciseStatus(q.Status),
		CallerID:    callerID,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, exercises)
}

// CreateExercise godoc
// @Summary Submit a new exercise
// @Description The exercise starts as pending until an admin approves it.
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param exercise body CreateExerciseRequest true "Exercise details"
// @Success 201 {object} domain.Exercise
// @Failure 400 {object} gin.H "Invalid input"
// @Router /exercises [post]
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	var req CreateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	exercise, err := h.exerciseService.CreateExercise(c.Request.Context(), userID, domain.ExerciseInput{
		Name:         req.Name,
		Category:     req.Category,
		MuscleGroups: req.MuscleGroups,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, exercise)
}

// GetExercise godoc
// @Summary Get one exercise
// @Tags Exercises
// @Produce json
// @Param id path string true "Exercise ID"
// @Success 200 {object} ExerciseResponse
// @Failure 404 {object} gin.H "Not found"
// @Router /exercises/{id} [get]
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	exercise, mediaURL, err := h.exerciseService.GetExercise(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, ExerciseResponse{Exercise: *exercise, MediaURL: mediaURL})
}

// ApproveExercise godoc
// @Summary Approve a pending exercise
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Success 200 {object} domain.Exercise
// @Failure 403 {object} gin.H "Not an admin"
// @Failure 404 {object} gin.H "Not found"
// @Router /exercises/{id}/approve [post]
func (h *ExerciseHandler) ApproveExercise(c *gin.Context) {
	approverID, ok := mustUserID(c)
	if !ok {
		return
	}
	exercise, err := h.exerciseService.ApproveExercise(c.Request.Context(), c.Param("id"), approverID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

// RequestMediaUpload godoc
// @Summary Get a presigned URL for uploading demonstration media
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Param body body MediaUploadRequest true "Media content type"
// @Success 200 {object} MediaUploadResponse
// @Failure 403 {object} gin.H "Not the author or an admin"
// @Failure 503 {object} gin.H "Media storage not configured"
// @Router /exercises/{id}/media [post]
func (h *ExerciseHandler) RequestMediaUpload(c *gin.Context) {
	var req MediaUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	role, _ := getUserRoleFromContext(c)

	url, key, err := h.exerciseService.RequestMediaUpload(c.Request.Context(),
		service.Caller{ID: userID, Role: role}, c.Param("id"), req.ContentType)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MediaUploadResponse{UploadURL: url, ObjectKey: key})
}
