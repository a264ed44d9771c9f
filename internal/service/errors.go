package service

import (
	"errors"
	"fmt"
)

// Taxonomy sentinels. Entity errors wrap one of these so the HTTP layer can
// map them with errors.Is; anything else is a storage failure.
var (
	ErrNotFound         = errors.New("not found")
	ErrAccessDenied     = errors.New("access denied")
	ErrAlreadyExists    = errors.New("already exists")
	ErrValidationFailed = errors.New("validation failed")
)

var (
	ErrUserNotFound         = fmt.Errorf("user %w", ErrNotFound)
	ErrUserAlreadyExists    = fmt.Errorf("user with this email %w", ErrAlreadyExists)
	ErrExerciseNotFound     = fmt.Errorf("exercise %w", ErrNotFound)
	ErrWorkoutNotFound      = fmt.Errorf("workout %w", ErrNotFound)
	ErrWorkoutAccessDenied  = fmt.Errorf("%w to this workout", ErrAccessDenied)
	ErrSessionNotFound      = fmt.Errorf("workout session %w", ErrNotFound)
	ErrSupersetNotFound     = fmt.Errorf("superset %w", ErrNotFound)
	ErrExerciseMediaDenied  = fmt.Errorf("%w: only the author or an admin can change exercise media", ErrAccessDenied)
	ErrMediaStorageDisabled = errors.New("media storage is not configured")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
)

// validationError builds a ValidationFailed error whose message is safe to return to clients.
func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidationFailed, fmt.Sprintf(format, args...))
}
