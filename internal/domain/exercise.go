// internal/domain/exercise.go
package domain

import (
	"time"
)

// ExerciseStatus is the moderation state of a catalog entry.
type ExerciseStatus string

const (
	ExerciseStatusPending  ExerciseStatus = "pending"
	ExerciseStatusApproved ExerciseStatus = "approved"
	// ExerciseStatusRejected exists in the model, but nothing transitions an exercise into it yet.
	ExerciseStatusRejected ExerciseStatus = "rejected"
)

// Valid reports whether s is one of the known statuses.
func (s ExerciseStatus) Valid() bool {
	switch s {
	case ExerciseStatusPending, ExerciseStatusApproved, ExerciseStatusRejected:
		return true
	}
	return false
}

// Exercise is a reusable definition in the shared catalog.
// CreatedBy only marks authorship for moderation visibility; it grants no access.
type Exercise struct {
	ID           string         `bson:"_id" json:"id"`
	Name         string         `bson:"name" json:"name"`
	Category     string         `bson:"category" json:"category"`
	MuscleGroups []string       `bson:"muscleGroups" json:"muscleGroups"`
	CreatedBy    *string        `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	Status       ExerciseStatus `bson:"status" json:"status"`
	ApprovedBy   *string        `bson:"approvedBy,omitempty" json:"approvedBy,omitempty"`
	ApprovedAt   *time.Time     `bson:"approvedAt,omitempty" json:"approvedAt,omitempty"`
	MediaKey     string         `bson:"mediaKey,omitempty" json:"-"` // Object key of the demonstration media, internal use
	CreatedAt    time.Time      `bson:"createdAt" json:"createdAt"`
}

// ExerciseInput is the user-submitted part of a new catalog entry.
type ExerciseInput struct {
	Name         string
	Category     string
	MuscleGroups []string
}
