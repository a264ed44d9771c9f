package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"

	"github.com/google/uuid"
)

// sqliteSupersetRepository implements repository.SupersetRepository.
type sqliteSupersetRepository struct {
	db *sql.DB
}

// NewSQLiteSupersetRepository creates a superset repository on the shared handle.
func NewSQLiteSupersetRepository(db *sql.DB) repository.SupersetRepository {
	return &sqliteSupersetRepository{db: db}
}

// Create writes the superset, its sets and one session exercise per member
// in one transaction. The session must exist; ownership is not checked here.
func (r *sqliteSupersetRepository) Create(ctx context.Context, sessionID string, input domain.SupersetInput) (*domain.Superset, error) {
	idsJSON, err := json.Marshal(input.ExerciseIDs)
	if err != nil {
		return nil, fmt.Errorf("encode superset exercise ids: %w", err)
	}

	supersetID := uuid.NewString()
	err = withTx(ctx, r.db, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM workout_sessions WHERE id = ?`, sessionID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("look up session: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO supersets (id, session_id, exercise_ids_json, rest_time, created_at) VALUES (?, ?, ?, ?, ?)`,
			supersetID, sessionID, string(idsJSON), nullInt(input.RestTime), formatTime(time.Now()))
		if err != nil {
			return fmt.Errorf("insert superset: %w", err)
		}

		for i, set := range input.Sets {
			data, err := json.Marshal(set.Exercises)
			if err != nil {
				return fmt.Errorf("encode superset set %d: %w", i+1, err)
			}
			_, err = tx.ExecContext(ctx,
				`INSERT INTO superset_sets (id, superset_id, set_number, sets_data_json) VALUES (?, ?, ?, ?)`,
				uuid.NewString(), supersetID, i+1, string(data))
			if err != nil {
				return fmt.Errorf("insert superset set %d: %w", i+1, err)
			}
		}

		// Member rows go after the exercises already in the session.
		var maxOrder sql.NullInt64
		if err := tx.QueryRowContext(ctx,
			`SELECT MAX(order_index) FROM workout_exercises WHERE session_id = ?`, sessionID).Scan(&maxOrder); err != nil {
			return fmt.Errorf("read session exercise order: %w", err)
		}
		next := 0
		if maxOrder.Valid {
			next = int(maxOrder.Int64) + 1
		}

		for i, exerciseID := range input.ExerciseIDs {
			name, err := exerciseName(ctx, tx, exerciseID)
			if err != nil {
				return err
			}
			_, err = tx.ExecContext(ctx,
				`INSERT INTO workout_exercises (id, session_id, exercise_id, exercise_name, order_index, is_superset, superset_id)
				 VALUES (?, ?, ?, ?, ?, 1, ?)`,
				uuid.NewString(), sessionID, exerciseID, name, next+i, supersetID)
			if err != nil {
				return fmt.Errorf("insert superset member %s: %w", exerciseID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	superset, err := r.GetByID(ctx, supersetID)
	if err != nil {
		return nil, fmt.Errorf("read back superset %s: %w", supersetID, err)
	}
	return superset, nil
}

// GetByID rebuilds the superset from its row and its set rows.
func (r *sqliteSupersetRepository) GetByID(ctx context.Context, id string) (*domain.Superset, error) {
	var (
		ss       domain.Superset
		idsJSON  string
		restTime sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, session_id, exercise_ids_json, rest_time FROM supersets WHERE id = ?`, id).
		Scan(&ss.ID, &ss.SessionID, &idsJSON, &restTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("select superset: %w", err)
	}
	if err := json.Unmarshal([]byte(idsJSON), &ss.ExerciseIDs); err != nil {
		return nil, fmt.Errorf("decode superset exercise ids: %w", err)
	}
	ss.RestTime = intPtr(restTime)

	rows, err := r.db.QueryContext(ctx,
		`SELECT set_number, sets_data_json FROM superset_sets WHERE superset_id = ? ORDER BY set_number ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("query superset sets: %w", err)
	}
	defer rows.Close()

	ss.Sets = []domain.SupersetSet{}
	for rows.Next() {
		var (
			set  domain.SupersetSet
			data string
		)
		if err := rows.Scan(&set.SetNumber, &data); err != nil {
			return nil, fmt.Errorf("scan superset set: %w", err)
		}
		if err := json.Unmarshal([]byte(data), &set.Exercises); err != nil {
			return nil, fmt.Errorf("decode superset set %d: %w", set.SetNumber, err)
		}
		ss.Sets = append(ss.Sets, set)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate superset sets: %w", err)
	}
	return &ss, nil
}
