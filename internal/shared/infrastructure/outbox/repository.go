package outbox

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Repository persists outbox messages. Save joins the caller's transaction
// when one is present in ctx.
type Repository interface {
	Save(ctx context.Context, msgs ...*Message) error
	// Pending returns unpublished, live messages due at or before now,
	// oldest first.
	Pending(ctx context.Context, now time.Time, limit int) ([]*Message, error)
	MarkPublished(ctx context.Context, id int64, at time.Time) error
	MarkFailed(ctx context.Context, id int64, reason string, nextRetryAt time.Time) error
	MarkDead(ctx context.Context, id int64, reason string, at time.Time) error
	// Purge deletes messages published before the cutoff.
	Purge(ctx context.Context, publishedBefore time.Time) (int64, error)
}

// MemoryRepository keeps messages in process memory.
type MemoryRepository struct {
	mu       sync.Mutex
	messages []*Message
	nextID   int64
}

// NewMemoryRepository creates an empty in-memory outbox.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1}
}

func (r *MemoryRepository) Save(ctx context.Context, msgs ...*Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, msg := range msgs {
		msg.ID = r.nextID
		r.nextID++
		r.messages = append(r.messages, msg)
	}
	return nil
}

func (r *MemoryRepository) Pending(ctx context.Context, now time.Time, limit int) ([]*Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*Message
	for _, msg := range r.messages {
		if msg.PublishedAt != nil || msg.DeadLetteredAt != nil {
			continue
		}
		if msg.NextRetryAt != nil && msg.NextRetryAt.After(now) {
			continue
		}
		out = append(out, msg)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepository) MarkPublished(ctx context.Context, id int64, at time.Time) error {
	return r.update(id, func(m *Message) { m.PublishedAt = &at })
}

func (r *MemoryRepository) MarkFailed(ctx context.Context, id int64, reason string, nextRetryAt time.Time) error {
	return r.update(id, func(m *Message) {
		m.RetryCount++
		m.LastError = reason
		m.NextRetryAt = &nextRetryAt
	})
}

func (r *MemoryRepository) MarkDead(ctx context.Context, id int64, reason string, at time.Time) error {
	return r.update(id, func(m *Message) {
		m.DeadLetteredAt = &at
		m.DeadLetterReason = reason
	})
}

func (r *MemoryRepository) Purge(ctx context.Context, publishedBefore time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.messages[:0]
	var purged int64
	for _, msg := range r.messages {
		if msg.PublishedAt != nil && msg.PublishedAt.Before(publishedBefore) {
			purged++
			continue
		}
		kept = append(kept, msg)
	}
	r.messages = kept
	return purged, nil
}

// All returns a snapshot of every stored message.
func (r *MemoryRepository) All() []*Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Message, len(r.messages))
	copy(out, r.messages)
	return out
}

func (r *MemoryRepository) update(id int64, fn func(*Message)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, msg := range r.messages {
		if msg.ID == id {
			fn(msg)
			return nil
		}
	}
	return nil
}

var _ Repository = (*MemoryRepository)(nil)
