package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"alcyxob/workout-tracker/internal/domain"

	"github.com/google/uuid"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		email         TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL DEFAULT 'user',
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS exercises (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		category      TEXT NOT NULL,
		muscle_groups TEXT NOT NULL,          -- JSON array of labels
		created_by    TEXT REFERENCES users(id) ON DELETE SET NULL,
		status        TEXT NOT NULL DEFAULT 'approved' CHECK (status IN ('pending', 'approved', 'rejected')),
		approved_by   TEXT REFERENCES users(id) ON DELETE SET NULL,
		approved_at   TEXT,
		media_key     TEXT,
		created_at    TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_exercises_name ON exercises(name)`,
	`CREATE INDEX IF NOT EXISTS idx_exercises_status ON exercises(status, created_by)`,

	`CREATE TABLE IF NOT EXISTS workout_logs (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		exercise_id TEXT NOT NULL REFERENCES exercises(id),
		weight      REAL NOT NULL CHECK (weight > 0),
		reps        INTEGER NOT NULL CHECK (reps > 0 AND reps <= 100),
		sets        INTEGER NOT NULL DEFAULT 1 CHECK (sets > 0),
		notes       TEXT,
		logged_at   TEXT NOT NULL,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_workout_logs_user_date ON workout_logs(user_id, logged_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_workout_logs_user_exercise ON workout_logs(user_id, exercise_id)`,

	`CREATE TABLE IF NOT EXISTS workout_sessions (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		logged_at  TEXT NOT NULL,
		duration   INTEGER,
		notes      TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_workout_sessions_user_date ON workout_sessions(user_id, logged_at DESC)`,

	`CREATE TABLE IF NOT EXISTS supersets (
		id                TEXT PRIMARY KEY,
		session_id        TEXT NOT NULL REFERENCES workout_sessions(id) ON DELETE CASCADE,
		exercise_ids_json TEXT NOT NULL,
		rest_time         INTEGER,
		created_at        TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_supersets_session ON supersets(session_id)`,

	`CREATE TABLE IF NOT EXISTS superset_sets (
		id             TEXT PRIMARY KEY,
		superset_id    TEXT NOT NULL REFERENCES supersets(id) ON DELETE CASCADE,
		set_number     INTEGER NOT NULL,
		sets_data_json TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_superset_sets_superset ON superset_sets(superset_id, set_number)`,

	// No foreign key on exercise_id: sessions may reference exercises
	// missing from the catalog, shown as "Unknown Exercise".
	`CREATE TABLE IF NOT EXISTS workout_exercises (
		id                    TEXT PRIMARY KEY,
		session_id            TEXT NOT NULL REFERENCES workout_sessions(id) ON DELETE CASCADE,
		exercise_id           TEXT NOT NULL,
		exercise_name         TEXT NOT NULL,
		order_index           INTEGER NOT NULL,
		is_superset           INTEGER NOT NULL DEFAULT 0,
		superset_id           TEXT REFERENCES supersets(id) ON DELETE CASCADE,
		machine_settings_json TEXT,
		notes                 TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_workout_exercises_session ON workout_exercises(session_id, order_index)`,

	`CREATE TABLE IF NOT EXISTS exercise_sets (
		id                  TEXT PRIMARY KEY,
		workout_exercise_id TEXT NOT NULL REFERENCES workout_exercises(id) ON DELETE CASCADE,
		set_number          INTEGER NOT NULL,
		weight              REAL NOT NULL CHECK (weight > 0),
		reps                INTEGER NOT NULL CHECK (reps > 0 AND reps <= 100),
		rpe                 REAL CHECK (rpe IS NULL OR (rpe >= 1 AND rpe <= 10)),
		rest_time           INTEGER,
		percentage          REAL,
		is_warmup           INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_exercise_sets_exercise ON exercise_sets(workout_exercise_id, is_warmup, set_number)`,
}

// Migrate creates the schema. It is safe to run on every start.
func Migrate(ctx context.Context, db *sql.DB) error {
	return withTx(ctx, db, func(tx *sql.Tx) error {
		for _, stmt := range schema {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
		}
		return nil
	})
}

// starterExercises is the approved catalog a fresh database begins with.
var starterExercises = []domain.ExerciseInput{
	{Name: "Squat", Category: "Strength", MuscleGroups: []string{"Legs", "Core"}},
	{Name: "Bench Press", Category: "Strength", MuscleGroups: []string{"Chest", "Arms"}},
	{Name: "Deadlift", Category: "Strength", MuscleGroups: []string{"Back", "Legs"}},
	{Name: "Overhead Press", Category: "Strength", MuscleGroups: []string{"Shoulders", "Arms"}},
	{Name: "Pull-ups", Category: "Strength", MuscleGroups: []string{"Back", "Arms"}},
}

// SeedExercises fills an empty catalog with approved starter exercises.
// It returns the number of rows inserted.
func SeedExercises(ctx context.Context, db *sql.DB) (int, error) {
	inserted := 0
	err := withTx(ctx, db, func(tx *sql.Tx) error {
		var count int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM exercises`).Scan(&count); err != nil {
			return fmt.Errorf("count exercises: %w", err)
		}
		if count > 0 {
			return nil
		}

		now := formatTime(time.Now())
		for _, ex := range starterExercises {
			groups, err := json.Marshal(ex.MuscleGroups)
			if err != nil {
				return err
			}
			_, err = tx.ExecContext(ctx,
				`INSERT INTO exercises (id, name, category, muscle_groups, status, created_at)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				uuid.NewString(), ex.Name, ex.Category, string(groups), domain.ExerciseStatusApproved, now)
			if err != nil {
				return fmt.Errorf("seed exercise %q: %w", ex.Name, err)
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}
