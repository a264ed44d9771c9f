package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"

	"github.com/google/uuid"
)

const workoutLogColumns = `id, user_id, exercise_id, weight, reps, sets, notes, logged_at, created_at, updated_at`

// sqliteWorkoutLogRepository implements repository.WorkoutLogRepository.
type sqliteWorkoutLogRepository struct {
	db    *sql.DB
	scope ownerScope
}

// NewSQLiteWorkoutLogRepository creates a workout log repository on the shared handle.
func NewSQLiteWorkoutLogRepository(db *sql.DB) repository.WorkoutLogRepository {
	return &sqliteWorkoutLogRepository{db: db, scope: newOwnerScope("workout_logs")}
}

func (r *sqliteWorkoutLogRepository) Create(ctx context.Context, userID string, input domain.WorkoutLogInput) (*domain.WorkoutLog, error) {
	now := time.Now()
	loggedAt := now
	if input.LoggedAt != nil {
		loggedAt = *input.LoggedAt
	}
	sets := input.Sets
	if sets <= 0 {
		sets = 1
	}

	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO workout_logs (`+workoutLogColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, userID, input.ExerciseID, input.Weight, input.Reps, sets, nullString(input.Notes),
		formatTime(loggedAt), formatTime(now), formatTime(now))
	if err != nil {
		return nil, fmt.Errorf("insert workout log: %w", err)
	}
	return r.GetByID(ctx, id)
}

// GetByID does not filter by owner; callers check Ownership first.
func (r *sqliteWorkoutLogRepository) GetByID(ctx context.Context, id string) (*domain.WorkoutLog, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+workoutLogColumns+` FROM workout_logs WHERE id = ?`, id)
	w, err := scanWorkoutLog(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return w, nil
}

// FindAll lists userID's logs, newest first, and the total matching the filter.
func (r *sqliteWorkoutLogRepository) FindAll(ctx context.Context, userID string, filter repository.WorkoutLogFilter) ([]domain.WorkoutLog, int, error) {
	conds := []string{`user_id = ?`}
	args := []any{userID}
	if filter.ExerciseID != "" {
		conds = append(conds, `exercise_id = ?`)
		args = append(args, filter.ExerciseID)
	}
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
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM workout_logs`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count workout logs: %w", err)
	}

	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	pageArgs := append(append([]any{}, args...), repository.ClampLimit(filter.Limit), offset)
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+workoutLogColumns+` FROM workout_logs`+where+
			` ORDER BY logged_at DESC, created_at DESC LIMIT ? OFFSET ?`, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("query workout logs: %w", err)
	}
	defer rows.Close()

	logs := []domain.WorkoutLog{}
	for rows.Next() {
		w, err := scanWorkoutLog(rows)
		if err != nil {
			return nil, 0, err
		}
		logs = append(logs, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate workout logs: %w", err)
	}
	return logs, total, nil
}

// Update patches the supplied fields of a log owned by userID.
// It returns repository.ErrNotFound when no owned row matched.
func (r *sqliteWorkoutLogRepository) Update(ctx context.Context, id, userID string, patch domain.WorkoutLogPatch) (*domain.WorkoutLog, error) {
	if patch.Empty() {
		own, err := r.Ownership(ctx, id, userID)
		if err != nil {
			return nil, err
		}
		if own != repository.OwnershipOwned {
			return nil, repository.ErrNotFound
		}
		return r.GetByID(ctx, id)
	}

	var (
		sets []string
		args []any
	)
	if patch.Weight != nil {
		sets = append(sets, `weight = ?`)
		args = append(args, *patch.Weight)
	}
	if patch.Reps != nil {
		sets = append(sets, `reps = ?`)
		args = append(args, *patch.Reps)
	}
	if patch.Sets != nil {
		sets = append(sets, `sets = ?`)
		args = append(args, *patch.Sets)
	}
	if patch.Notes != nil {
		sets = append(sets, `notes = ?`)
		args = append(args, nullString(*patch.Notes))
	}
	if patch.LoggedAt != nil {
		sets = append(sets, `logged_at = ?`)
		args = append(args, formatTime(*patch.LoggedAt))
	}
	sets = append(sets, `updated_at = ?`)
	args = append(args, formatTime(time.Now()), id, userID)

	res, err := r.db.ExecContext(ctx,
		`UPDATE workout_logs SET `+strings.Join(sets, ", ")+` WHERE `+r.scope.where(), args...)
	if err != nil {
		return nil, fmt.Errorf("update workout log: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, repository.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *sqliteWorkoutLogRepository) Delete(ctx context.Context, id, userID string) (bool, error) {
	return r.scope.deleteOwned(ctx, r.db, id, userID)
}

func (r *sqliteWorkoutLogRepository) Ownership(ctx context.Context, id, userID string) (repository.Ownership, error) {
	return r.scope.check(ctx, r.db, id, userID)
}

func scanWorkoutLog(s rowScanner) (*domain.WorkoutLog, error) {
	var (
		w                              domain.WorkoutLog
		notes                          sql.NullString
		loggedAt, createdAt, updatedAt string
	)
	if err := s.Scan(&w.ID, &w.UserID, &w.ExerciseID, &w.Weight, &w.Reps, &w.Sets, &notes,
		&loggedAt, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan workout log: %w", err)
	}
	w.Notes = notes.String

	var err error
	if w.LoggedAt, err = parseTime(loggedAt); err != nil {
		return nil, err
	}
	if w.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if w.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &w, nil
}
