package application

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/felixgeelhaar/onramp/internal/organization/domain"
	sharedApplication "github.com/felixgeelhaar/onramp/internal/shared/application"
	"github.com/google/uuid"
)

// ExtendTrialCommand is the out-of-band admin extension.
type ExtendTrialCommand struct {
	OrganizationID uuid.UUID
	AdditionalDays int
	ActorUserID    uuid.UUID
	CorrelationID  uuid.UUID
}

// ExtendTrial pushes an organization's trial end out. It is the only
// operation that moves trialEndsAt after provisioning.
func (p *Provisioner) ExtendTrial(ctx context.Context, cmd ExtendTrialCommand) (*domain.Organization, error) {
	if cmd.AdditionalDays <= 0 {
		return nil, domain.ErrInvalidExtension
	}

	var org *domain.Organization
	err := sharedApplication.WithUnitOfWork(ctx, p.uow, func(txCtx context.Context) error {
		var err error
		org, err = p.orgs.FindByID(txCtx, cmd.OrganizationID)
		if err != nil {
			return err
		}
		if org == nil {
			return domain.ErrNotFound
		}
		if err := org.ExtendTrial(cmd.AdditionalDays, cmd.ActorUserID, p.clock.Now()); err != nil {
			return err
		}
		if err := p.orgs.Update(txCtx, org); err != nil {
			return err
		}
		return p.saveEvents(txCtx, org, cmd.ActorUserID, cmd.CorrelationID)
	})
	if err != nil {
		return nil, err
	}

	if p.records != nil {
		metadata := map[string]string{"additional_days": strconv.Itoa(cmd.AdditionalDays)}
		if end := org.TrialEndsAt(); end != nil {
			metadata["trial_ends_at"] = end.Format(time.RFC3339)
		}
		entry := domain.NewAuditEntry(org, cmd.ActorUserID, domain.AuditActionExtendTrial, metadata, p.clock.Now())
		if err := p.records.AppendAudit(ctx, entry); err != nil {
			p.logger.WarnContext(ctx, "failed to write audit log", "organization_id", org.ID(), "error", err)
		}
	}

	p.logger.InfoContext(ctx, "trial extended",
		"organization_id", org.ID(),
		"additional_days", cmd.AdditionalDays,
	)
	return org, nil
}

// AttachPaymentCustomer records the payment provider customer on an
// organization.
func (p *Provisioner) AttachPaymentCustomer(ctx context.Context, orgID uuid.UUID, ref string, actor uuid.UUID) (*domain.Organization, error) {
	var org *domain.Organization
	err := sharedApplication.WithUnitOfWork(ctx, p.uow, func(txCtx context.Context) error {
		var err error
		org, err = p.orgs.FindByID(txCtx, orgID)
		if err != nil {
			return err
		}
		if org == nil {
			return domain.ErrNotFound
		}
		if err := org.AttachPaymentCustomer(ref, p.clock.Now()); err != nil {
			return err
		}
		if len(org.DomainEvents()) == 0 {
			return nil
		}
		if err := p.orgs.Update(txCtx, org); err != nil {
			return err
		}
		return p.saveEvents(txCtx, org, actor, uuid.Nil)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to attach payment customer: %w", err)
	}
	return org, nil
}

// GetOrganization returns the organization or ErrNotFound.
func (p *Provisioner) GetOrganization(ctx context.Context, id uuid.UUID) (*domain.Organization, error) {
	org, err := p.orgs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}
	return org, nil
}

// FindByOwner returns the owner's organization, or nil.
func (p *Provisioner) FindByOwner(ctx context.Context, ownerUserID uuid.UUID) (*domain.Organization, error) {
	return p.orgs.FindByOwner(ctx, ownerUserID)
}

// Members lists an organization's members.
func (p *Provisioner) Members(ctx context.Context, orgID uuid.UUID) ([]domain.Member, error) {
	return p.members.ListByOrganization(ctx, orgID)
}
