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

const exerciseColumns = `id, name, category, muscle_groups, created_by, status, approved_by, approved_at, media_key, created_at`

// sqliteExerciseRepository implements repository.ExerciseRepository.
type sqliteExerciseRepository struct {
	db *sql.DB
}

// NewSQLiteExerciseRepository creates a catalog repository on the shared handle.
func NewSQLiteExerciseRepository(db *sql.DB) repository.ExerciseRepository {
	return &sqliteExerciseRepository{db: db}
}

// FindAll lists catalog entries ordered by name.
// Name search and muscle-group filtering happen after the query;
// SQLite's LOWER only folds ASCII.
func (r *sqliteExerciseRepository) FindAll(ctx context.Context, filter repository.ExerciseFilter) ([]domain.Exercise, error) {
	var (
		conds []string
		args  []any
	)

	switch {
	case filter.Status != "":
		conds = append(conds, `status = ?`)
		args = append(args, string(filter.Status))
	case filter.CallerID != "":
		conds = append(conds, `(status = ? OR (status = ? AND created_by = ?))`)
		args = append(args, string(domain.ExerciseStatusApproved), string(domain.ExerciseStatusPending), filter.CallerID)
	default:
		conds = append(conds, `status = ?`)
		args = append(args, string(domain.ExerciseStatusApproved))
	}

	query := `SELECT ` + exerciseColumns + ` FROM exercises WHERE ` + strings.Join(conds, " AND ") + ` ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query exercises: %w", err)
	}
	defer rows.Close()

	exercises := []domain.Exercise{}
	for rows.Next() {
		ex, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		exercises = append(exercises, *ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exercises: %w", err)
	}

	return repository.MatchMuscleGroup(repository.MatchName(exercises, filter.Search), filter.MuscleGroup), nil
}

// Create inserts a user-submitted exercise. It always starts as pending.
func (r *sqliteExerciseRepository) Create(ctx context.Context, userID string, input domain.ExerciseInput) (*domain.Exercise, error) {
	groups := input.MuscleGroups
	if groups == nil {
		groups = []string{}
	}
	groupsJSON, err := json.Marshal(groups)
	if err != nil {
		return nil, fmt.Errorf("encode muscle groups: %w", err)
	}

	id := uuid.NewString()
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO exercises (id, name, category, muscle_groups, created_by, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, input.Name, input.Category, string(groupsJSON), nullString(userID),
		string(domain.ExerciseStatusPending), formatTime(time.Now()))
	if err != nil {
		return nil, fmt.Errorf("insert exercise: %w", err)
	}
	return r.GetByID(ctx, id)
}

// GetByID returns repository.ErrNotFound for unknown ids.
func (r *sqliteExerciseRepository) GetByID(ctx context.Context, id string) (*domain.Exercise, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+exerciseColumns+` FROM exercises WHERE id = ?`, id)
	ex, err := scanExercise(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return ex, nil
}

// Approve marks the exercise approved whatever its current status.
func (r *sqliteExerciseRepository) Approve(ctx context.Context, id, approverID string) (*domain.Exercise, error) {
	_, err := r.db.ExecContext(ctx,
		`UPDATE exercises SET status = ?, approved_by = ?, approved_at = ? WHERE id = ?`,
		string(domain.ExerciseStatusApproved), nullString(approverID), formatTime(time.Now()), id)
	if err != nil {
		return nil, fmt.Errorf("approve exercise: %w", err)
	}
	return r.GetByID(ctx, id)
}

// SetMediaKey records the object key of the exercise's demonstration media.
func (r *sqliteExerciseRepository) SetMediaKey(ctx context.Context, id, key string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE exercises SET media_key = ? WHERE id = ?`, nullString(key), id)
	if err != nil {
		return fmt.Errorf("set exercise media key: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// exerciseName returns the catalog name of id, or the Unknown Exercise sentinel.
func exerciseName(ctx context.Context, q querier, id string) (string, error) {
	var name string
	err := q.QueryRowContext(ctx, `SELECT name FROM exercises WHERE id = ?`, id).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.UnknownExerciseName, nil
	}
	if err != nil {
		return "", fmt.Errorf("look up exercise name: %w", err)
	}
	return name, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExercise(s rowScanner) (*domain.Exercise, error) {
	var (
		ex                    domain.Exercise
		groups, status        string
		createdBy, approvedBy sql.NullString
		approvedAt, mediaKey  sql.NullString
		createdAt             string
	)
	if err := s.Scan(&ex.ID, &ex.Name, &ex.Category, &groups, &createdBy, &status,
		&approvedBy, &approvedAt, &mediaKey, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan exercise: %w", err)
	}

	if err := json.Unmarshal([]byte(groups), &ex.MuscleGroups); err != nil {
		return nil, fmt.Errorf("decode muscle groups of %s: %w", ex.ID, err)
	}
	ex.Status = domain.ExerciseStatus(status)
	if createdBy.Valid {
		ex.CreatedBy = &createdBy.String
	}
	if approvedBy.Valid {
		ex.ApprovedBy = &approvedBy.String
	}
	ex.MediaKey = mediaKey.String

	var err error
	if ex.ApprovedAt, err = parseNullTime(approvedAt); err != nil {
		return nil, err
	}
	if ex.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &ex, nil
}
