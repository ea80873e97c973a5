package domain

import (
	"context"

	"github.com/google/uuid"
)

// DismissalStore remembers banner dismissals for the lifetime of one
// session. Implementations must not persist across sessions.
type DismissalStore interface {
	// Dismissed returns the status the banner was dismissed under, if any.
	Dismissed(ctx context.Context, sessionID string, orgID uuid.UUID) (Status, bool, error)
	Dismiss(ctx context.Context, sessionID string, orgID uuid.UUID, status Status) error
}

// Banner describes what the trial banner should show.
type Banner struct {
	Visible     bool     `json:"visible"`
	Dismissible bool     `json:"dismissible"`
	Status      Status   `json:"status"`
	Message     *Message `json:"message,omitempty"`
}

// BannerFor decides banner visibility. dismissedUnder is the status recorded
// when the user dismissed the banner this session; a dismissal only hides
// the banner while the status is unchanged.
func BannerFor(s TrialStatus, dismissedUnder Status, dismissed bool) Banner {
	b := Banner{Status: s.Status}
	if s.Status == StatusConverted {
		return b
	}
	msg := MessageFor(s)
	if msg == nil {
		return b
	}
	b.Message = msg
	b.Dismissible = s.Status != StatusExpired
	b.Visible = !(dismissed && b.Dismissible && dismissedUnder == s.Status)
	return b
}
