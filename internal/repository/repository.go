package repository

import (
	"context"
	"strings"
	"time"

	"alcyxob/workout-tracker/internal/domain"
)

// Error constants for repository layer
var (
	ErrNotFound      = RepositoryError("not found")
	ErrAlreadyExists = RepositoryError("already exists")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// Ownership is the outcome of checking a row against an owner.
type Ownership int

const (
	OwnershipMissing  Ownership = iota // No row with that id
	OwnershipOwned                     // Row exists and belongs to the owner
	OwnershipNotOwned                  // Row exists but belongs to someone else
)

// Page size limits shared by the list operations.
const (
	DefaultPageSize = 100
	MaxPageSize     = 1000
)

// ClampLimit applies the default and the hard cap to a requested page size.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

// ExerciseFilter narrows a catalog listing.
// Without Status the default visibility applies: approved rows plus CallerID's own pending rows.
type ExerciseFilter struct {
	Search      string
	MuscleGroup string
	Status      domain.ExerciseStatus
	CallerID    string
}

// MatchName keeps the exercises whose name contains search, ignoring case.
// Search text is literal.
func MatchName(exercises []domain.Exercise, search string) []domain.Exercise {
	if search == "" {
		return exercises
	}
	needle := strings.ToLower(search)
	matched := make([]domain.Exercise, 0, len(exercises))
	for _, ex := range exercises {
		if strings.Contains(strings.ToLower(ex.Name), needle) {
			matched = append(matched, ex)
		}
	}
	return matched
}

// MatchMuscleGroup keeps the exercises listing group (case-insensitive) in their muscle groups.
// The catalog applies this after the query, not inside it.
func MatchMuscleGroup(exercises []domain.Exercise, group string) []domain.Exercise {
	if group == "" {
		return exercises
	}
	matched := make([]domain.Exercise, 0, len(exercises))
	for _, ex := range exercises {
		for _, mg := range ex.MuscleGroups {
			if strings.EqualFold(mg, group) {
				matched = append(matched, ex)
				break
			}
		}
	}
	return matched
}

// WorkoutLogFilter narrows a workout log listing. From and To are inclusive.
type WorkoutLogFilter struct {
	ExerciseID string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// SessionFilter narrows a workout session listing. From and To are inclusive.
type SessionFilter struct {
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (string, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// ExerciseRepository defines the interface for the shared exercise catalog.
type ExerciseRepository interface {
	FindAll(ctx context.Context, filter ExerciseFilter) ([]domain.Exercise, error)
	Create(ctx context.Context, userID string, input domain.ExerciseInput) (*domain.Exercise, error)
	GetByID(ctx context.Context, id string) (*domain.Exercise, error)
	Approve(ctx context.Context, id, approverID string) (*domain.Exercise, error)
	SetMediaKey(ctx context.Context, id, key string) error
}

// WorkoutLogRepository defines the interface for flat workout log entries.
type WorkoutLogRepository interface {
	Create(ctx context.Context, userID string, input domain.WorkoutLogInput) (*domain.WorkoutLog, error)
	GetByID(ctx context.Context, id string) (*domain.WorkoutLog, error)
	FindAll(ctx context.Context, userID string, filter WorkoutLogFilter) ([]domain.WorkoutLog, int, error)
	Update(ctx context.Context, id, userID string, patch domain.WorkoutLogPatch) (*domain.WorkoutLog, error)
	Delete(ctx context.Context, id, userID string) (bool, error)
	Ownership(ctx context.Context, id, userID string) (Ownership, error)
}

// SessionRepository persists the workout session aggregate as one unit.
type SessionRepository interface {
	Create(ctx context.Context, userID string, input domain.WorkoutSessionInput) (*domain.WorkoutSession, error)
	GetByID(ctx context.Context, id, userID string) (*domain.WorkoutSession, error)
	FindAll(ctx context.Context, userID string, filter SessionFilter) ([]domain.WorkoutSession, int, error)
	Update(ctx context.Context, id, userID string, patch domain.WorkoutSessionPatch) (*domain.WorkoutSession, error)
	Delete(ctx context.Context, id, userID string) (bool, error)
	Ownership(ctx context.Context, id, userID string) (Ownership, error)
}

// SupersetRepository persists supersets inside an existing session.
// It does not check session ownership; callers do.
type SupersetRepository interface {
	Create(ctx context.Context, sessionID string, input domain.SupersetInput) (*domain.Superset, error)
	GetByID(ctx context.Context, id string) (*domain.Superset, error)
}
