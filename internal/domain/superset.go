package domain

// Superset groups 2-4 exercises of a session that share a sequence of sets.
type Superset struct {
	ID          string        `bson:"id" json:"id"`
	SessionID   string        `bson:"sessionId" json:"sessionId"`
	ExerciseIDs []string      `bson:"exerciseIds" json:"exerciseIds"`
	Sets        []SupersetSet `bson:"sets" json:"sets"`
	RestTime    *int          `bson:"restTime,omitempty" json:"restTime,omitempty"` // Seconds, shared by all exercises
}

// SupersetSet holds one round of the superset: one entry per exercise.
type SupersetSet struct {
	SetNumber int                    `bson:"setNumber" json:"setNumber"`
	Exercises []SupersetExerciseData `bson:"exercises" json:"exercises"`
}

type SupersetExerciseData struct {
	ExerciseID string   `bson:"exerciseId" json:"exerciseId"`
	Weight     float64  `bson:"weight" json:"weight"`
	Reps       int      `bson:"reps" json:"reps"`
	RPE        *float64 `bson:"rpe,omitempty" json:"rpe,omitempty"`
}

// SupersetInput is a new superset. Set numbers come from the position in Sets.
type SupersetInput struct {
	ExerciseIDs []string
	Sets        []SupersetSet
	RestTime    *int
}

// HasExercise reports whether id is one of the superset's exercises.
func (in SupersetInput) HasExercise(id string) bool {
	for _, e := range in.ExerciseIDs {
		if e == id {
			return true
		}
	}
	return false
}
