// Package auth issues and validates the Redis-backed sessions behind the
// API's bearer tokens.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/slotwise/backend/domain"
	appLogger "github.com/slotwise/backend/pkg/logger"
	"github.com/slotwise/backend/repository"
)

// maxTTL caps client-requested session lifetimes.
const maxTTL = 30 * 24 * time.Hour

type UseCase struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	logger   *zap.Logger
}

func New(users repository.UserRepository, sessions repository.SessionRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:    users,
		sessions: sessions,
		logger:   logger,
	}
}

// CreateSession mints a session, provisioning the account row on first
// login. Known but non-active users are rejected so a token can never
// reference a suspended account.
func (uc *UseCase) CreateSession(ctx context.Context, userID string, ttl time.Duration) (*domain.Session, error) {
	user, err := uc.users.GetByID(ctx, userID)
	switch err {
	case nil:
	case domain.ErrUserNotFound:
		user = &domain.User{ID: userID, Status: "active"}
		if err := uc.users.Upsert(ctx, user); err != nil {
			return nil, err
		}
		uc.log(ctx).Info("user provisioned", zap.String("user_id", userID))
	default:
		return nil, err
	}
	if !user.IsActive() {
		return nil, domain.ErrUnauthorized
	}

	now := time.Now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(clampTTL(ttl)),
	}
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	uc.log(ctx).Info("session created",
		zap.String("user_id", userID),
		zap.Time("expires_at", session.ExpiresAt))
	return session, nil
}

// GetSession loads a session and lazily evicts it when expired.
func (uc *UseCase) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsExpired(time.Now()) {
		_ = uc.sessions.Delete(ctx, sessionID)
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// RefreshSession extends a live session. Expired sessions cannot be
// refreshed; the client has to log in again.
func (uc *UseCase) RefreshSession(ctx context.Context, sessionID string, ttl time.Duration) (*domain.Session, error) {
	session, err := uc.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	ttl = clampTTL(ttl)
	if err := uc.sessions.Extend(ctx, sessionID, int(ttl.Seconds())); err != nil {
		return nil, err
	}
	session.ExpiresAt = time.Now().Add(ttl)
	return session, nil
}

// RevokeSession drops the session immediately.
func (uc *UseCase) RevokeSession(ctx context.Context, sessionID string) error {
	return uc.sessions.Delete(ctx, sessionID)
}

func (uc *UseCase) log(ctx context.Context) *zap.Logger {
	return appLogger.WithRequestID(ctx, uc.logger)
}

func clampTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return time.Hour
	}
	if ttl > maxTTL {
		return maxTTL
	}
	return ttl
}
