package service

import (
	"context"
	"errors"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"

	"go.uber.org/zap"
)

// WorkoutService manages flat single-exercise workout logs.
// A log owned by someone else is reported as access denied, not as missing.
type WorkoutService interface {
	CreateWorkout(ctx context.Context, userID string, input domain.WorkoutLogInput) (*domain.WorkoutLog, error)
	GetWorkout(ctx context.Context, userID, workoutID string) (*domain.WorkoutLog, error)
	ListWorkouts(ctx context.Context, userID string, filter repository.WorkoutLogFilter) ([]domain.WorkoutLog, int, error)
	UpdateWorkout(ctx context.Context, userID, workoutID string, patch domain.WorkoutLogPatch) (*domain.WorkoutLog, error)
	DeleteWorkout(ctx context.Context, userID, workoutID string) error
}

type workoutService struct {
	workoutRepo  repository.WorkoutLogRepository
	exerciseRepo repository.ExerciseRepository
	logger       *zap.Logger
}

func NewWorkoutService(workoutRepo repository.WorkoutLogRepository, exerciseRepo repository.ExerciseRepository, logger *zap.Logger) WorkoutService {
	return &workoutService{
		workoutRepo:  workoutRepo,
		exerciseRepo: exerciseRepo,
		logger:       logger,
	}
}

func (s *workoutService) CreateWorkout(ctx context.Context, userID string, input domain.WorkoutLogInput) (*domain.WorkoutLog, error) {
	if err := validateWorkoutLogInput(&input); err != nil {
		return nil, err
	}
	if _, err := s.exerciseRepo.GetByID(ctx, input.ExerciseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, validationError("Exercise does not exist")
		}
		return nil, err
	}
	return s.workoutRepo.Create(ctx, userID, input)
}

// checkOwnership maps a missing log to not found and a foreign one to access denied.
func (s *workoutService) checkOwnership(ctx context.Context, userID, workoutID string) error {
	own, err := s.workoutRepo.Ownership(ctx, workoutID, userID)
	if err != nil {
		return err
	}
	switch own {
	case repository.OwnershipMissing:
		return ErrWorkoutNotFound
	case repository.OwnershipNotOwned:
		s.logger.Debug("workout access denied", zap.String("workoutId", workoutID), zap.String("userId", userID))
		return ErrWorkoutAccessDenied
	}
	return nil
}

func (s *workoutService) GetWorkout(ctx context.Context, userID, workoutID string) (*domain.WorkoutLog, error) {
	if err := s.checkOwnership(ctx, userID, workoutID); err != nil {
		return nil, err
	}
	w, err := s.workoutRepo.GetByID(ctx, workoutID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrWorkoutNotFound
	}
	return w, err
}

func (s *workoutService) ListWorkouts(ctx context.Context, userID string, filter repository.WorkoutLogFilter) ([]domain.WorkoutLog, int, error) {
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, 0, validationError("Start date must not be after end date")
	}
	if filter.Offset < 0 {
		return nil, 0, validationError("Offset cannot be negative")
	}
	filter.Limit = repository.ClampLimit(filter.Limit)
	return s.workoutRepo.FindAll(ctx, userID, filter)
}

func (s *workoutService) UpdateWorkout(ctx context.Context, userID, workoutID string, patch domain.WorkoutLogPatch) (*domain.WorkoutLog, error) {
	if err := validateWorkoutLogPatch(&patch); err != nil {
		return nil, err
	}
	if err := s.checkOwnership(ctx, userID, workoutID); err != nil {
		return nil, err
	}
	w, err := s.workoutRepo.Update(ctx, workoutID, userID, patch)
	if errors.Is(err, repository.ErrNotFound) {
		// Deleted after the ownership check.
		return nil, ErrWorkoutNotFound
	}
	return w, err
}

func (s *workoutService) DeleteWorkout(ctx context.Context, userID, workoutID string) error {
	if err := s.checkOwnership(ctx, userID, workoutID); err != nil {
		return err
	}
	deleted, err := s.workoutRepo.Delete(ctx, workoutID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrWorkoutNotFound
	}
	return nil
}
