package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"

	"github.com/google/uuid"
)

// sqliteSessionRepository implements repository.SessionRepository.
// A session row, its workout_exercises and their exercise_sets form one aggregate.
type sqliteSessionRepository struct {
	db    *sql.DB
	scope ownerScope
}

// NewSQLiteSessionRepository creates a session repository on the shared handle.
func NewSQLiteSessionRepository(db *sql.DB) repository.SessionRepository {
	return &sqliteSessionRepository{db: db, scope: newOwnerScope("workout_sessions")}
}

// Create writes the whole session tree in one transaction and reads it back.
func (r *sqliteSessionRepository) Create(ctx context.Context, userID string, input domain.WorkoutSessionInput) (*domain.WorkoutSession, error) {
	sessionID := uuid.NewString()
	now := formatTime(time.Now())
	loggedAt := input.LoggedAt
	if loggedAt.IsZero() {
		loggedAt = time.Now()
	}

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO workout_sessions (id, user_id, logged_at, duration, notes, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			sessionID, userID, formatTime(loggedAt), nullInt(input.Duration), nullString(input.Notes), now, now)
		if err != nil {
			return fmt.Errorf("insert session: %w", err)
		}

		for i, ex := range input.Exercises {
			if err := insertSessionExercise(ctx, tx, sessionID, i, ex); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	session, err := r.GetByID(ctx, sessionID, userID)
	if err != nil {
		return nil, fmt.Errorf("read back session %s: %w", sessionID, err)
	}
	return session, nil
}

func insertSessionExercise(ctx context.Context, tx *sql.Tx, sessionID string, order int, ex domain.WorkoutExerciseInput) error {
	name, err := exerciseName(ctx, tx, ex.ExerciseID)
	if err != nil {
		return err
	}

	var settings sql.NullString
	if len(ex.MachineSettings) > 0 {
		raw, err := json.Marshal(ex.MachineSettings)
		if err != nil {
			return fmt.Errorf("encode machine settings: %w", err)
		}
		settings = sql.NullString{String: string(raw), Valid: true}
	}

	weID := uuid.NewString()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO workout_exercises (id, session_id, exercise_id, exercise_name, order_index, is_superset, machine_settings_json, notes)
		 VALUES (?, ?, ?, ?, ?, 0, ?, ?)`,
		weID, sessionID, ex.ExerciseID, name, order, settings, nullString(ex.Notes))
	if err != nil {
		return fmt.Errorf("insert workout exercise %d: %w", order, err)
	}

	for i, set := range ex.Sets {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO exercise_sets (id, workout_exercise_id, set_number, weight, reps, rpe, rest_time, is_warmup)
			 VALUES (?, ?, ?, ?, ?, ?, ?, 0)`,
			uuid.NewString(), weID, i+1, set.Weight, set.Reps, nullFloat(set.RPE), nullInt(set.RestTime))
		if err != nil {
			return fmt.Errorf("insert set %d of exercise %d: %w", i+1, order, err)
		}
	}
	for i, set := range ex.WarmupSets {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO exercise_sets (id, workout_exercise_id, set_number, weight, reps, percentage, is_warmup)
			 VALUES (?, ?, ?, ?, ?, ?, 1)`,
			uuid.NewString(), weID, i+1, set.Weight, set.Reps, nullFloat(set.Percentage))
		if err != nil {
			return fmt.Errorf("insert warmup set %d of exercise %d: %w", i+1, order, err)
		}
	}
	return nil
}

// GetByID returns the full aggregate, or repository.ErrNotFound when the
// session does not exist or belongs to another user.
func (r *sqliteSessionRepository) GetByID(ctx context.Context, id, userID string) (*domain.WorkoutSession, error) {
	var (
		s                    domain.WorkoutSession
		loggedAt             string
		duration             sql.NullInt64
		notes                sql.NullString
		createdAt, updatedAt string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, logged_at, duration, notes, created_at, updated_at
		 FROM workout_sessions WHERE `+r.scope.where(), id, userID).
		Scan(&s.ID, &s.UserID, &loggedAt, &duration, &notes, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("select session: %w", err)
	}
	s.Duration = intPtr(duration)
	s.Notes = notes.String
	if s.LoggedAt, err = parseTime(loggedAt); err != nil {
		return nil, err
	}
	if s.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if s.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	if s.Exercises, err = r.loadExercises(ctx, s.ID); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sqliteSessionRepository) loadExercises(ctx context.Context, sessionID string) ([]domain.WorkoutExercise, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, exercise_id, exercise_name, order_index, is_superset, superset_id, machine_settings_json, notes
		 FROM workout_exercises WHERE session_id = ? ORDER BY order_index ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query workout exercises: %w", err)
	}

	exercises := []domain.WorkoutExercise{}
	index := map[string]int{}
	for rows.Next() {
		var (
			we                        domain.WorkoutExercise
			isSuperset                int
			supersetID, settings, nts sql.NullString
		)
		if err := rows.Scan(&we.ID, &we.ExerciseID, &we.ExerciseName, &we.Order, &isSuperset,
			&supersetID, &settings, &nts); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan workout exercise: %w", err)
		}
		we.IsSuperset = isSuperset == 1
		if supersetID.Valid {
			we.SupersetID = &supersetID.String
		}
		if settings.Valid && settings.String != "" {
			if err := json.Unmarshal([]byte(settings.String), &we.MachineSettings); err != nil {
				rows.Close()
				return nil, fmt.Errorf("decode machine settings of %s: %w", we.ID, err)
			}
		}
		we.Notes = nts.String
		we.Sets = []domain.ExerciseSet{}
		index[we.ID] = len(exercises)
		exercises = append(exercises, we)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate workout exercises: %w", err)
	}
	// The handle has a single connection; release it before the next query.
	rows.Close()

	setRows, err := r.db.QueryContext(ctx,
		`SELECT es.workout_exercise_id, es.set_number, es.weight, es.reps, es.rpe, es.rest_time, es.percentage, es.is_warmup
		 FROM exercise_sets es
		 JOIN workout_exercises we ON we.id = es.workout_exercise_id
		 WHERE we.session_id = ?
		 ORDER BY es.workout_exercise_id, es.is_warmup, es.set_number`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query exercise sets: %w", err)
	}
	defer setRows.Close()

	for setRows.Next() {
		var (
			weID            string
			setNumber, reps int
			weight          float64
			rpe, percentage sql.NullFloat64
			restTime        sql.NullInt64
			isWarmup        int
		)
		if err := setRows.Scan(&weID, &setNumber, &weight, &reps, &rpe, &restTime, &percentage, &isWarmup); err != nil {
			return nil, fmt.Errorf("scan exercise set: %w", err)
		}
		i, ok := index[weID]
		if !ok {
			continue
		}
		if isWarmup == 1 {
			exercises[i].WarmupSets = append(exercises[i].WarmupSets, domain.WarmupSet{
				SetNumber: setNumber, Weight: weight, Reps: reps, Percentage: floatPtr(percentage),
			})
			continue
		}
		exercises[i].Sets = append(exercises[i].Sets, domain.ExerciseSet{
			SetNumber: setNumber, Weight: weight, Reps: reps, RPE: floatPtr(rpe), RestTime: intPtr(restTime),
		})
	}
	if err := setRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exercise sets: %w", err)
	}
	return exercises, nil
}

// FindAll lists userID's sessions, newest first, and the total matching the filter.
func (r *sqliteSessionRepository) FindAll(ctx context.Context, userID string, filter repository.SessionFilter) ([]domain.WorkoutSession, int, error) {
	conds := []string{`user_id = ?`}
	args := []any{userID}
	if filter.From != nil {
		conds = append(conds, `logged_at >= ?`)
		args = append(args, formatTime(*filter.From))
	}
	if filter.To != nil {
		conds = append(conds, `logged_at <= ?`)
		args = append(args, formatTime(*filter.To))
	}
	where := ` WHERE ` + strings.Join(conds, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM workout_sessions`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sessions: %w", err)
	}

	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	pageArgs := append(append([]any{}, args...), repository.ClampLimit(filter.Limit), offset)
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM workout_sessions`+where+` ORDER BY logged_at DESC, created_at DESC LIMIT ? OFFSET ?`, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("query sessions: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, 0, fmt.Errorf("scan session id: %w", err)
		}
		ids = append(ids, id)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, 0, fmt.Errorf("iterate sessions: %w", err)
	}

	sessions := make([]domain.WorkoutSession, 0, len(ids))
	for _, id := range ids {
		s, err := r.GetByID(ctx, id, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				// Deleted between the page query and the read.
				continue
			}
			return nil, 0, err
		}
		sessions = append(sessions, *s)
	}
	return sessions, total, nil
}

// Update patches the supplied session fields. An empty patch is a plain read.
// It returns repository.ErrNotFound when no owned row matched.
func (r *sqliteSessionRepository) Update(ctx context.Context, id, userID string, patch domain.WorkoutSessionPatch) (*domain.WorkoutSession, error) {
	if patch.Empty() {
		return r.GetByID(ctx, id, userID)
	}

	var (
		sets []string
		args []any
	)
	if patch.LoggedAt != nil {
		sets = append(sets, `logged_at = ?`)
		args = append(args, formatTime(*patch.LoggedAt))
	}
	if patch.Duration != nil {
		sets = append(sets, `duration = ?`)
		args = append(args, *patch.Duration)
	}
	if patch.Notes != nil {
		sets = append(sets, `notes = ?`)
		args = append(args, nullString(*patch.Notes))
	}
	sets = append(sets, `updated_at = ?`)
	args = append(args, formatTime(time.Now()), id, userID)

	res, err := r.db.ExecContext(ctx,
		`UPDATE workout_sessions SET `+strings.Join(sets, ", ")+` WHERE `+r.scope.where(), args...)
	if err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, repository.ErrNotFound
	}
	return r.GetByID(ctx, id, userID)
}

// Delete removes the session and, through cascades, its exercises, sets and supersets.
func (r *sqliteSessionRepository) Delete(ctx context.Context, id, userID string) (bool, error) {
	return r.scope.deleteOwned(ctx, r.db, id, userID)
}

func (r *sqliteSessionRepository) Ownership(ctx context.Context, id, userID string) (repository.Ownership, error) {
	return r.scope.check(ctx, r.db, id, userID)
}
