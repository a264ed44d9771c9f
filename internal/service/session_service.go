package service

import (
	"context"
	"errors"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"

	"go.uber.org/zap"
)

// SessionPage is one page of a session listing.
type SessionPage struct {
	Data    []domain.WorkoutSession `json:"data"`
	Total   int                     `json:"total"`
	HasMore bool                    `json:"hasMore"`
}

// SessionService manages workout sessions and their supersets.
// Sessions owned by someone else are indistinguishable from missing ones.
type SessionService interface {
	CreateSession(ctx context.Context, userID string, input domain.WorkoutSessionInput) (*domain.WorkoutSession, error)
	GetSession(ctx context.Context, userID, sessionID string) (*domain.WorkoutSession, error)
	ListSessions(ctx context.Context, userID string, filter repository.SessionFilter) (*SessionPage, error)
	UpdateSession(ctx context.Context, userID, sessionID string, patch domain.WorkoutSessionPatch) (*domain.WorkoutSession, error)
	DeleteSession(ctx context.Context, userID, sessionID string) error

	CreateSuperset(ctx context.Context, userID, sessionID string, input domain.SupersetInput) (*domain.Superset, error)
	GetSuperset(ctx context.Context, userID, supersetID string) (*domain.Superset, error)
}

type sessionService struct {
	sessionRepo  repository.SessionRepository
	supersetRepo repository.SupersetRepository
	logger       *zap.Logger
}

func NewSessionService(sessionRepo repository.SessionRepository, supersetRepo repository.SupersetRepository, logger *zap.Logger) SessionService {
	return &sessionService{
		sessionRepo:  sessionRepo,
		supersetRepo: supersetRepo,
		logger:       logger,
	}
}

func (s *sessionService) CreateSession(ctx context.Context, userID string, input domain.WorkoutSessionInput) (*domain.WorkoutSession, error) {
	if err := validateSessionInput(&input); err != nil {
		return nil, err
	}
	session, err := s.sessionRepo.Create(ctx, userID, input)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("session created",
		zap.String("sessionId", session.ID), zap.Int("exercises", len(session.Exercises)))
	return session, nil
}

func (s *sessionService) GetSession(ctx context.Context, userID, sessionID string) (*domain.WorkoutSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	return session, err
}

func (s *sessionService) ListSessions(ctx context.Context, userID string, filter repository.SessionFilter) (*SessionPage, error) {
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, validationError("Start date must not be after end date")
	}
	if filter.Offset < 0 {
		return nil, validationError("Offset cannot be negative")
	}
	filter.Limit = repository.ClampLimit(filter.Limit)

	sessions, total, err := s.sessionRepo.FindAll(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	return &SessionPage{
		Data:    sessions,
		Total:   total,
		HasMore: filter.Offset+len(sessions) < total,
	}, nil
}

func (s *sessionService) UpdateSession(ctx context.Context, userID, sessionID string, patch domain.WorkoutSessionPatch) (*domain.WorkoutSession, error) {
	if err := validateSessionPatch(&patch); err != nil {
		return nil, err
	}
	session, err := s.sessionRepo.Update(ctx, sessionID, userID, patch)
	if errors.Is(err, repository.ErrNotFound) {
		s.logMiss(ctx, "update", userID, sessionID)
		return nil, ErrSessionNotFound
	}
	return session, err
}

func (s *sessionService) DeleteSession(ctx context.Context, userID, sessionID string) error {
	deleted, err := s.sessionRepo.Delete(ctx, sessionID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		s.logMiss(ctx, "delete", userID, sessionID)
		return ErrSessionNotFound
	}
	return nil
}

// logMiss records why a scoped write matched nothing. The caller sees not found either way.
func (s *sessionService) logMiss(ctx context.Context, op, userID, sessionID string) {
	own, err := s.sessionRepo.Ownership(ctx, sessionID, userID)
	if err != nil {
		s.logger.Warn("session ownership check failed", zap.String("sessionId", sessionID), zap.Error(err))
		return
	}
	if own == repository.OwnershipNotOwned {
		s.logger.Debug("session write by non-owner",
			zap.String("op", op), zap.String("sessionId", sessionID), zap.String("userId", userID))
	}
}

// CreateSuperset validates the superset, checks the caller owns the session and stores it.
func (s *sessionService) CreateSuperset(ctx context.Context, userID, sessionID string, input domain.SupersetInput) (*domain.Superset, error) {
	if err := validateSupersetInput(input); err != nil {
		return nil, err
	}
	own, err := s.sessionRepo.Ownership(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if own != repository.OwnershipOwned {
		return nil, ErrSessionNotFound
	}

	superset, err := s.supersetRepo.Create(ctx, sessionID, input)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	return superset, err
}

// GetSuperset returns the superset when its session belongs to the caller.
func (s *sessionService) GetSuperset(ctx context.Context, userID, supersetID string) (*domain.Superset, error) {
	superset, err := s.supersetRepo.GetByID(ctx, supersetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSupersetNotFound
		}
		return nil, err
	}
	own, err := s.sessionRepo.Ownership(ctx, superset.SessionID, userID)
	if err != nil {
		return nil, err
	}
	if own != repository.OwnershipOwned {
		return nil, ErrSupersetNotFound
	}
	return superset, nil
}
