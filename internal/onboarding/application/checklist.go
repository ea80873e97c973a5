package application

import (
	"context"

	"github.com/felixgeelhaar/onramp/internal/onboarding/domain"
	"github.com/google/uuid"
)

// Checklist returns the user's checklist for the organization, creating it
// when absent.
func (s *Saga) Checklist(ctx context.Context, userID, orgID uuid.UUID) (*domain.Checklist, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrUserRequired
	}
	unlock := s.locks.lock(userID)
	defer unlock()
	return s.checklist(ctx, userID, orgID)
}

func (s *Saga) checklist(ctx context.Context, userID, orgID uuid.UUID) (*domain.Checklist, error) {
	if orgID == uuid.Nil {
		return nil, domain.ErrOrganizationMissing
	}
	c, err := s.checklists.Find(ctx, userID, orgID)
	if err != nil {
		return nil, domain.WrapPersistence("load checklist", err)
	}
	if c != nil {
		return c, nil
	}

	fresh := domain.NewChecklist(userID, orgID, s.clock.Now())
	if err := s.checklists.Create(ctx, fresh); err != nil {
		return nil, domain.WrapPersistence("create checklist", err)
	}
	c, err = s.checklists.Find(ctx, userID, orgID)
	if err != nil {
		return nil, domain.WrapPersistence("load checklist", err)
	}
	if c == nil {
		// The user's checklist belongs to another organization.
		return nil, domain.ErrChecklistNotFound
	}
	return c, nil
}

func (s *Saga) updateChecklist(ctx context.Context, userID, orgID uuid.UUID, fn func(c *domain.Checklist) error) (*domain.Checklist, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrUserRequired
	}
	unlock := s.locks.lock(userID)
	defer unlock()

	c, err := s.checklist(ctx, userID, orgID)
	if err != nil {
		return nil, err
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	if err := s.checklists.Save(ctx, c); err != nil {
		return nil, domain.WrapPersistence("save checklist", err)
	}
	return c, nil
}

// DismissChecklist hides the checklist until it is reset.
func (s *Saga) DismissChecklist(ctx context.Context, userID, orgID uuid.UUID) (*domain.Checklist, error) {
	return s.updateChecklist(ctx, userID, orgID, func(c *domain.Checklist) error {
		c.Dismiss(s.clock.Now())
		return nil
	})
}

// MinimizeChecklist collapses or expands the checklist.
func (s *Saga) MinimizeChecklist(ctx context.Context, userID, orgID uuid.UUID, minimized bool) (*domain.Checklist, error) {
	return s.updateChecklist(ctx, userID, orgID, func(c *domain.Checklist) error {
		c.Minimize(minimized, s.clock.Now())
		return nil
	})
}

// ResetChecklist shows a dismissed checklist again.
func (s *Saga) ResetChecklist(ctx context.Context, userID, orgID uuid.UUID) (*domain.Checklist, error) {
	return s.updateChecklist(ctx, userID, orgID, func(c *domain.Checklist) error {
		c.Reset(s.clock.Now())
		return nil
	})
}

// MarkChecklistItem marks an item done.
func (s *Saga) MarkChecklistItem(ctx context.Context, userID, orgID uuid.UUID, item domain.ChecklistItem) (*domain.Checklist, error) {
	return s.updateChecklist(ctx, userID, orgID, func(c *domain.Checklist) error {
		return c.Mark(item, s.clock.Now())
	})
}
