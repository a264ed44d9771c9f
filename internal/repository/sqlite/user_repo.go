package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"

	"github.com/google/uuid"
)

// sqliteUserRepository implements repository.UserRepository.
type sqliteUserRepository struct {
	db *sql.DB
}

// NewSQLiteUserRepository creates a user repository on the shared handle.
func NewSQLiteUserRepository(db *sql.DB) repository.UserRepository {
	return &sqliteUserRepository{db: db}
}

// Create inserts a new user. A duplicate email yields repository.ErrAlreadyExists.
func (r *sqliteUserRepository) Create(ctx context.Context, user *domain.User) (string, error) {
	if user.Email == "" || user.PasswordHash == "" {
		return "", errors.New("user email and password hash are required")
	}
	if user.Role == "" {
		user.Role = domain.RoleUser
	}

	user.ID = uuid.NewString()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, role, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.PasswordHash, user.Role, formatTime(now), formatTime(now))
	if err != nil {
		if isUniqueViolation(err) {
			return "", repository.ErrAlreadyExists
		}
		return "", fmt.Errorf("insert user: %w", err)
	}
	return user.ID, nil
}

// GetByEmail retrieves a user by their (already normalized) email address.
func (r *sqliteUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `WHERE email = ?`, email)
}

// GetByID retrieves a user by id.
func (r *sqliteUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getOne(ctx, `WHERE id = ?`, id)
}

func (r *sqliteUserRepository) getOne(ctx context.Context, where string, arg any) (*domain.User, error) {
	var (
		user                 domain.User
		role                 string
		createdAt, updatedAt string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, role, created_at, updated_at FROM users `+where, arg).
		Scan(&user.ID, &user.Email, &user.PasswordHash, &role, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	user.Role = domain.Role(role)
	if user.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if user.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &user, nil
}
