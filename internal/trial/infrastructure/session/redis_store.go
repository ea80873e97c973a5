package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	trialDomain "github.com/felixgeelhaar/onramp/internal/trial/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Key namespaces a dismissal: onramp:session:{session_id}:trial-banner:{org_id}
func Key(sessionID string, orgID uuid.UUID) string {
	return fmt.Sprintf("onramp:session:%s:trial-banner:%s", sessionID, orgID)
}

// RedisStore keeps dismissals in Redis with a session TTL so they vanish
// with the session.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

// TTL returns the expiry applied to each dismissal.
func (s *RedisStore) TTL() time.Duration {
	return s.ttl
}

func (s *RedisStore) Dismissed(ctx context.Context, sessionID string, orgID uuid.UUID) (trialDomain.Status, bool, error) {
	if sessionID == "" {
		return "", false, trialDomain.ErrSessionRequired
	}
	val, err := s.client.Get(ctx, Key(sessionID, orgID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read banner dismissal: %w", err)
	}
	return trialDomain.Status(val), true, nil
}

func (s *RedisStore) Dismiss(ctx context.Context, sessionID string, orgID uuid.UUID, status trialDomain.Status) error {
	if sessionID == "" {
		return trialDomain.ErrSessionRequired
	}
	if err := s.client.Set(ctx, Key(sessionID, orgID), string(status), s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store banner dismissal: %w", err)
	}
	return nil
}
