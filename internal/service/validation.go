package service

import (
	"strings"
	"unicode/utf8"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/sanitize"
)

// Field limits shared by the validators.
const (
	minReps             = 1
	maxReps             = 100
	minRPE              = 1
	maxRPE              = 10
	minSupersetSize     = 2
	maxSupersetSize     = 4
	maxWorkoutNotes     = 500
	maxSessionNotes     = 1000
	maxExerciseName     = 100
	maxExerciseCategory = 50
	minPasswordLength   = 8
)

func checkWeight(w float64) error {
	if w <= 0 {
		return validationError("Weight must be positive")
	}
	return nil
}

func checkReps(r int) error {
	if r < minReps || r > maxReps {
		return validationError("Reps must be between %d and %d", minReps, maxReps)
	}
	return nil
}

func checkRPE(rpe *float64) error {
	if rpe != nil && (*rpe < minRPE || *rpe > maxRPE) {
		return validationError("RPE must be between %d and %d", minRPE, maxRPE)
	}
	return nil
}

func checkNotes(notes string, limit int) error {
	if utf8.RuneCountInString(notes) > limit {
		return validationError("Notes must be at most %d characters", limit)
	}
	return nil
}

// cleanNotes sanitizes free text and enforces its length limit.
func cleanNotes(notes string, limit int) (string, error) {
	clean := sanitize.Text(notes)
	if err := checkNotes(clean, limit); err != nil {
		return "", err
	}
	return clean, nil
}

func validateWorkoutLogInput(in *domain.WorkoutLogInput) error {
	if strings.TrimSpace(in.ExerciseID) == "" {
		return validationError("Exercise ID is required")
	}
	if err := checkWeight(in.Weight); err != nil {
		return err
	}
	if err := checkReps(in.Reps); err != nil {
		return err
	}
	if in.Sets < 0 {
		return validationError("Sets must be positive")
	}
	notes, err := cleanNotes(in.Notes, maxWorkoutNotes)
	if err != nil {
		return err
	}
	in.Notes = notes
	return nil
}

func validateWorkoutLogPatch(p *domain.WorkoutLogPatch) error {
	if p.Weight != nil {
		if err := checkWeight(*p.Weight); err != nil {
			return err
		}
	}
	if p.Reps != nil {
		if err := checkReps(*p.Reps); err != nil {
			return err
		}
	}
	if p.Sets != nil && *p.Sets < 1 {
		return validationError("Sets must be positive")
	}
	if p.Notes != nil {
		notes, err := cleanNotes(*p.Notes, maxWorkoutNotes)
		if err != nil {
			return err
		}
		p.Notes = &notes
	}
	return nil
}

func checkDuration(d *int) error {
	if d != nil && *d < 1 {
		return validationError("Duration must be at least 1 minute")
	}
	return nil
}

func validateSessionInput(in *domain.WorkoutSessionInput) error {
	if in.LoggedAt.IsZero() {
		return validationError("loggedAt is required")
	}
	if len(in.Exercises) == 0 {
		return validationError("At least one exercise is required")
	}
	if err := checkDuration(in.Duration); err != nil {
		return err
	}
	notes, err := cleanNotes(in.Notes, maxSessionNotes)
	if err != nil {
		return err
	}
	in.Notes = notes

	for i := range in.Exercises {
		ex := &in.Exercises[i]
		if strings.TrimSpace(ex.ExerciseID) == "" {
			return validationError("Exercise ID is required")
		}
		if len(ex.Sets) == 0 {
			return validationError("Each exercise must have at least one set")
		}
		for _, set := range ex.Sets {
			if err := checkWeight(set.Weight); err != nil {
				return err
			}
			if err := checkReps(set.Reps); err != nil {
				return err
			}
			if err := checkRPE(set.RPE); err != nil {
				return err
			}
			if set.RestTime != nil && *set.RestTime < 0 {
				return validationError("Rest time cannot be negative")
			}
		}
		for _, set := range ex.WarmupSets {
			if err := checkWeight(set.Weight); err != nil {
				return err
			}
			if err := checkReps(set.Reps); err != nil {
				return err
			}
			if set.Percentage != nil && (*set.Percentage <= 0 || *set.Percentage > 100) {
				return validationError("Warmup percentage must be between 0 and 100")
			}
		}
		if ex.Notes, err = cleanNotes(ex.Notes, maxWorkoutNotes); err != nil {
			return err
		}
	}
	return nil
}

func validateSessionPatch(p *domain.WorkoutSessionPatch) error {
	if err := checkDuration(p.Duration); err != nil {
		return err
	}
	if p.Notes != nil {
		notes, err := cleanNotes(*p.Notes, maxSessionNotes)
		if err != nil {
			return err
		}
		p.Notes = &notes
	}
	return nil
}

func validateSupersetInput(in domain.SupersetInput) error {
	if n := len(in.ExerciseIDs); n < minSupersetSize || n > maxSupersetSize {
		return validationError("Superset must contain %d-%d exercises", minSupersetSize, maxSupersetSize)
	}
	if len(in.Sets) == 0 {
		return validationError("At least one set is required")
	}
	if in.RestTime != nil && *in.RestTime < 0 {
		return validationError("Rest time cannot be negative")
	}
	for _, set := range in.Sets {
		if len(set.Exercises) != len(in.ExerciseIDs) {
			return validationError("Each set must have data for all exercises")
		}
		for _, data := range set.Exercises {
			if !in.HasExercise(data.ExerciseID) {
				return validationError("Exercise ID in set does not match superset exercise IDs")
			}
			if err := checkWeight(data.Weight); err != nil {
				return err
			}
			if err := checkReps(data.Reps); err != nil {
				return err
			}
			if err := checkRPE(data.RPE); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateExerciseInput(in *domain.ExerciseInput) error {
	in.Name = strings.TrimSpace(sanitize.Text(in.Name))
	in.Category = strings.TrimSpace(sanitize.Text(in.Category))
	if in.Name == "" || utf8.RuneCountInString(in.Name) > maxExerciseName {
		return validationError("Name must be between 1 and %d characters", maxExerciseName)
	}
	if in.Category == "" || utf8.RuneCountInString(in.Category) > maxExerciseCategory {
		return validationError("Category must be between 1 and %d characters", maxExerciseCategory)
	}
	groups := make([]string, 0, len(in.MuscleGroups))
	for _, g := range in.MuscleGroups {
		if g = strings.TrimSpace(sanitize.Text(g)); g != "" {
			groups = append(groups, g)
		}
	}
	if len(groups) == 0 {
		return validationError("At least one muscle group is required")
	}
	in.MuscleGroups = groups
	return nil
}
