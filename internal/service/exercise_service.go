package service

import (
	"context"
	"errors"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
	"alcyxob/workout-tracker/internal/storage"

	"go.uber.org/zap"
)

const mediaURLExpiry = storage.DefaultPresignedURLExpiry

// ExerciseService runs the shared catalog and its moderation.
type ExerciseService interface {
	ListExercises(ctx context.Context, filter repository.ExerciseFilter) ([]domain.Exercise, error)
	CreateExercise(ctx context.Context, userID string, input domain.ExerciseInput) (*domain.Exercise, error)
	GetExercise(ctx context.Context, exerciseID string) (exercise *domain.Exercise, mediaURL string, err error)
	ApproveExercise(ctx context.Context, exerciseID, approverID string) (*domain.Exercise, error)
	RequestMediaUpload(ctx context.Context, caller Caller, exerciseID, contentType string) (uploadURL, objectKey string, err error)
}

// Caller identifies the authenticated user making a request.
type Caller struct {
	ID   string
	Role domain.Role
}

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	fileStorage  storage.FileStorage // nil when media storage is not configured
	logger       *zap.Logger
}

// NewExerciseService creates a new instance of exerciseService.
// fileStorage may be nil; media operations then fail with ErrMediaStorageDisabled.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, fileStorage storage.FileStorage, logger *zap.Logger) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		fileStorage:  fileStorage,
		logger:       logger,
	}
}

// ListExercises applies the default visibility unless filter.Status is set.
func (s *exerciseService) ListExercises(ctx context.Context, filter repository.ExerciseFilter) ([]domain.Exercise, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, validationError("Status must be one of pending, approved, rejected")
	}
	return s.exerciseRepo.FindAll(ctx, filter)
}

// CreateExercise submits a new exercise for moderation.
func (s *exerciseService) CreateExercise(ctx context.Context, userID string, input domain.ExerciseInput) (*domain.Exercise, error) {
	if err := validateExerciseInput(&input); err != nil {
		return nil, err
	}
	exercise, err := s.exerciseRepo.Create(ctx, userID, input)
	if err != nil {
		return nil, err
	}
	s.logger.Info("exercise submitted", zap.String("exerciseId", exercise.ID), zap.String("userId", userID))
	return exercise, nil
}

// GetExercise returns the exercise and, when it has media, a presigned download URL.
func (s *exerciseService) GetExercise(ctx context.Context, exerciseID string) (*domain.Exercise, string, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrExerciseNotFound
		}
		return nil, "", err
	}

	if exercise.MediaKey == "" || s.fileStorage == nil {
		return exercise, "", nil
	}
	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, exercise.MediaKey, mediaURLExpiry)
	if err != nil {
		// The exercise itself is still useful without its media.
		s.logger.Warn("presign exercise media failed", zap.String("exerciseId", exercise.ID), zap.Error(err))
		return exercise, "", nil
	}
	return exercise, url, nil
}

// ApproveExercise marks an exercise approved. Role checks happen at the HTTP boundary.
func (s *exerciseService) ApproveExercise(ctx context.Context, exerciseID, approverID string) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.Approve(ctx, exerciseID, approverID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	s.logger.Info("exercise approved", zap.String("exerciseId", exerciseID), zap.String("approverId", approverID))
	return exercise, nil
}

// RequestMediaUpload reserves a new object key for the exercise's media and
// returns a presigned PUT URL for it. Any previous object is deleted.
func (s *exerciseService) RequestMediaUpload(ctx context.Context, caller Caller, exerciseID, contentType string) (string, string, error) {
	if s.fileStorage == nil {
		return "", "", ErrMediaStorageDisabled
	}

	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", "", ErrExerciseNotFound
		}
		return "", "", err
	}
	isAuthor := exercise.CreatedBy != nil && *exercise.CreatedBy == caller.ID
	if !isAuthor && !caller.Role.IsAdmin() {
		return "", "", ErrExerciseMediaDenied
	}

	key, err := storage.ExerciseMediaKey(exercise.ID, contentType)
	if err != nil {
		return "", "", validationError("Content type must be a supported image or video type")
	}
	url, err := s.fileStorage.GeneratePresignedUploadURL(ctx, key, contentType, mediaURLExpiry)
	if err != nil {
		return "", "", err
	}
	if err := s.exerciseRepo.SetMediaKey(ctx, exercise.ID, key); err != nil {
		return "", "", err
	}

	if old := exercise.MediaKey; old != "" && old != key {
		if err := s.fileStorage.DeleteObject(ctx, old); err != nil {
			// Orphaned object; the new key is already recorded.
			s.logger.Warn("delete previous exercise media failed", zap.String("key", old), zap.Error(err))
		}
	}
	return url, key, nil
}
