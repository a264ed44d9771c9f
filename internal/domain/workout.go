package domain

import (
	"time"
)

// WorkoutLog is a flat single-exercise entry, kept alongside workout sessions.
type WorkoutLog struct {
	ID         string    `bson:"_id" json:"id"`
	UserID     string    `bson:"userId" json:"userId"`
	ExerciseID string    `bson:"exerciseId" json:"exerciseId"`
	Weight     float64   `bson:"weight" json:"weight"`
	Reps       int       `bson:"reps" json:"reps"`
	Sets       int       `bson:"sets" json:"sets"`
	Notes      string    `bson:"notes,omitempty" json:"notes,omitempty"`
	LoggedAt   time.Time `bson:"loggedAt" json:"loggedAt"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}

// WorkoutLogInput carries the fields of a new workout log.
// Sets defaults to 1 and LoggedAt to the creation time when left zero.
type WorkoutLogInput struct {
	ExerciseID string
	Weight     float64
	Reps       int
	Sets       int
	Notes      string
	LoggedAt   *time.Time
}

// WorkoutLogPatch lists the fields to change; nil fields are left alone.
type WorkoutLogPatch struct {
	Weight   *float64
	Reps     *int
	Sets     *int
	Notes    *string
	LoggedAt *time.Time
}

// Empty reports whether the patch changes nothing.
func (p WorkoutLogPatch) Empty() bool {
	return p.Weight == nil && p.Reps == nil && p.Sets == nil && p.Notes == nil && p.LoggedAt == nil
}
