package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"alcyxob/workout-tracker/internal/repository"

	"github.com/mattn/go-sqlite3"
)

// ownerScope holds the compound id+owner filter shared by every user-owned table.
type ownerScope struct {
	table      string
	ownerField string
}

func newOwnerScope(table string) ownerScope {
	return ownerScope{table: table, ownerField: "user_id"}
}

// where is the filter matching one row owned by one user. Arguments: id, ownerID.
func (s ownerScope) where() string {
	return fmt.Sprintf("id = ? AND %s = ?", s.ownerField)
}

// check tells apart a missing row from a row owned by somebody else.
func (s ownerScope) check(ctx context.Context, q querier, id, ownerID string) (repository.Ownership, error) {
	var owner string
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", s.ownerField, s.table)
	err := q.QueryRowContext(ctx, query, id).Scan(&owner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return repository.OwnershipMissing, nil
		}
		return repository.OwnershipMissing, fmt.Errorf("check %s owner: %w", s.table, err)
	}
	if owner != ownerID {
		return repository.OwnershipNotOwned, nil
	}
	return repository.OwnershipOwned, nil
}

// deleteOwned removes the row only if ownerID owns it.
func (s ownerScope) deleteOwned(ctx context.Context, q querier, id, ownerID string) (bool, error) {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s", s.table, s.where())
	res, err := q.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("delete from %s: %w", s.table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// isUniqueViolation reports whether err comes from a UNIQUE or PRIMARY KEY constraint.
func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique || se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
