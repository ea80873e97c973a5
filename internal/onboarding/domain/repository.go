package domain

import (
	"context"

	"github.com/google/uuid"
)

// ProgressRepository persists onboarding progress keyed by user id.
type ProgressRepository interface {
	// Find returns nil, nil when the user has no progress.
	Find(ctx context.Context, userID uuid.UUID) (*Progress, error)
	// Create inserts p unless a row for the user already exists.
	Create(ctx context.Context, p *Progress) error
	// Save upserts p. The stored answers are merged with patch rather than
	// replaced.
	Save(ctx context.Context, p *Progress, patch Answers) error
}

// ChecklistRepository persists getting-started checklists.
type ChecklistRepository interface {
	Find(ctx context.Context, userID, orgID uuid.UUID) (*Checklist, error)
	// Create inserts c unless the user already has a checklist.
	Create(ctx context.Context, c *Checklist) error
	Save(ctx context.Context, c *Checklist) error
}

// SettingsRepository stores the organization settings snapshot.
type SettingsRepository interface {
	SaveSnapshot(ctx context.Context, s SettingsSnapshot) error
	FindSnapshot(ctx context.Context, orgID uuid.UUID) (*SettingsSnapshot, error)
}
