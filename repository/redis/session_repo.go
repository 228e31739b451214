// Package redis holds the Redis-backed repositories. Sessions live here
// because their TTL maps directly onto Redis key expiry.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/slotwise/backend/domain"
	"github.com/slotwise/backend/repository"
)

const sessionKeyPrefix = "slotwise:session:"

type sessionRepository struct {
	client     *redislib.Client
	defaultTTL time.Duration
}

// NewSessionRepository creates a Redis-backed session repository. ttl is the
// fallback lifetime applied when a session carries no usable expiry.
func NewSessionRepository(client *redislib.Client, ttl time.Duration) repository.SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &sessionRepository{client: client, defaultTTL: ttl}
}

func (r *sessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	raw, err := r.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	var session domain.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Save writes the session with a key expiry matching its ExpiresAt, so Redis
// evicts it at the same moment the session stops being valid.
func (r *sessionRepository) Save(ctx context.Context, session *domain.Session) error {
	if session == nil || session.ID == "" {
		return domain.ErrInvalidPayload
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	if !session.ExpiresAt.After(session.CreatedAt) {
		session.ExpiresAt = session.CreatedAt.Add(r.defaultTTL)
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}

	expiry := time.Until(session.ExpiresAt)
	if expiry <= 0 {
		expiry = r.defaultTTL
	}
	return r.client.Set(ctx, sessionKeyPrefix+session.ID, payload, expiry).Err()
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, sessionKeyPrefix+id).Err()
}

// Extend pushes the key expiry out without rewriting the payload.
func (r *sessionRepository) Extend(ctx context.Context, id string, ttlSeconds int) error {
	extension := time.Duration(ttlSeconds) * time.Second
	if extension <= 0 {
		extension = r.defaultTTL
	}
	return r.client.Expire(ctx, sessionKeyPrefix+id, extension).Err()
}
