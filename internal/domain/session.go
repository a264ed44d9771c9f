package domain

import (
	"time"
)

// UnknownExerciseName is shown for session exercises whose catalog entry does not exist.
const UnknownExerciseName = "Unknown Exercise"

// WorkoutSession is the aggregate root: the session, its ordered exercises and their sets
// are written, read and deleted as one unit.
type WorkoutSession struct {
	ID        string            `bson:"_id" json:"id"`
	UserID    string            `bson:"userId" json:"userId"`
	LoggedAt  time.Time         `bson:"loggedAt" json:"loggedAt"`
	Duration  *int              `bson:"duration,omitempty" json:"duration,omitempty"` // Minutes
	Notes     string            `bson:"notes,omitempty" json:"notes,omitempty"`
	Exercises []WorkoutExercise `bson:"exercises" json:"exercises"`
	CreatedAt time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time         `bson:"updatedAt" json:"updatedAt"`
}

// WorkoutExercise is one exercise performed in a session.
// ExerciseName is copied from the catalog at write time.
type WorkoutExercise struct {
	ID              string         `bson:"id" json:"id"`
	ExerciseID      string         `bson:"exerciseId" json:"exerciseId"`
	ExerciseName    string         `bson:"exerciseName" json:"exerciseName"`
	Order           int            `bson:"order" json:"order"`
	IsSuperset      bool           `bson:"isSuperset" json:"isSuperset"`
	SupersetID      *string        `bson:"supersetId,omitempty" json:"supersetId,omitempty"`
	Sets            []ExerciseSet  `bson:"sets" json:"sets"`
	WarmupSets      []WarmupSet    `bson:"warmupSets,omitempty" json:"warmupSets,omitempty"`
	MachineSettings map[string]any `bson:"machineSettings,omitempty" json:"machineSettings,omitempty"`
	Notes           string         `bson:"notes,omitempty" json:"notes,omitempty"`
}

// ExerciseSet is a working set. SetNumber is assigned from the set's position on insert.
type ExerciseSet struct {
	SetNumber int      `bson:"setNumber" json:"setNumber"`
	Weight    float64  `bson:"weight" json:"weight"`
	Reps      int      `bson:"reps" json:"reps"`
	RPE       *float64 `bson:"rpe,omitempty" json:"rpe,omitempty"`
	RestTime  *int     `bson:"restTime,omitempty" json:"restTime,omitempty"` // Seconds
}

// WarmupSet is numbered independently of the working sets.
type WarmupSet struct {
	SetNumber  int      `bson:"setNumber" json:"setNumber"`
	Weight     float64  `bson:"weight" json:"weight"`
	Reps       int      `bson:"reps" json:"reps"`
	Percentage *float64 `bson:"percentage,omitempty" json:"percentage,omitempty"` // Of working weight
}

// WorkoutSessionInput is the full tree of a new session.
type WorkoutSessionInput struct {
	LoggedAt  time.Time
	Duration  *int
	Notes     string
	Exercises []WorkoutExerciseInput
}

// WorkoutExerciseInput describes one exercise of a new session.
// Any SetNumber supplied in Sets or WarmupSets is ignored.
type WorkoutExerciseInput struct {
	ExerciseID      string
	Sets            []ExerciseSet
	WarmupSets      []WarmupSet
	MachineSettings map[string]any
	Notes           string
}

// WorkoutSessionPatch lists the session fields to change.
type WorkoutSessionPatch struct {
	LoggedAt *time.Time
	Duration *int
	Notes    *string
}

// Empty reports whether the patch changes nothing.
func (p WorkoutSessionPatch) Empty() bool {
	return p.LoggedAt == nil && p.Duration == nil && p.Notes == nil
}
