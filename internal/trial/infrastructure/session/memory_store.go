// Package session holds per-session trial banner dismissals.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/felixgeelhaar/onramp/internal/shared/domain"
	trialDomain "github.com/felixgeelhaar/onramp/internal/trial/domain"
	"github.com/google/uuid"
)

// DefaultTTL bounds how long a dismissal outlives its last write.
const DefaultTTL = 12 * time.Hour

type memoryEntry struct {
	status    trialDomain.Status
	expiresAt time.Time
}

// MemoryStore keeps dismissals in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	clock   domain.Clock
}

// NewMemoryStore creates a store whose entries expire after ttl.
func NewMemoryStore(ttl time.Duration, clock domain.Clock) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &MemoryStore{entries: make(map[string]memoryEntry), ttl: ttl, clock: clock}
}

func (s *MemoryStore) Dismissed(ctx context.Context, sessionID string, orgID uuid.UUID) (trialDomain.Status, bool, error) {
	if sessionID == "" {
		return "", false, trialDomain.ErrSessionRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := Key(sessionID, orgID)
	e, ok := s.entries[key]
	if !ok {
		return "", false, nil
	}
	if !s.clock.Now().Before(e.expiresAt) {
		delete(s.entries, key)
		return "", false, nil
	}
	return e.status, true, nil
}

func (s *MemoryStore) Dismiss(ctx context.Context, sessionID string, orgID uuid.UUID, status trialDomain.Status) error {
	if sessionID == "" {
		return trialDomain.ErrSessionRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[Key(sessionID, orgID)] = memoryEntry{status: status, expiresAt: s.clock.Now().Add(s.ttl)}
	return nil
}
