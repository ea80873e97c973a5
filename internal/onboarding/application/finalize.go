package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/felixgeelhaar/onramp/internal/onboarding/domain"
	orgApplication "github.com/felixgeelhaar/onramp/internal/organization/application"
	orgDomain "github.com/felixgeelhaar/onramp/internal/organization/domain"
	sharedApplication "github.com/felixgeelhaar/onramp/internal/shared/application"
	"github.com/felixgeelhaar/onramp/pkg/observability"
	"github.com/google/uuid"
)

// Finalize provisions the user's organization and stamps completion. Only
// failing to obtain the organization aborts, with a retryable
// *domain.ProvisionError; the settings snapshot and checklist are best
// effort. Finalizing completed onboarding returns the terminal progress.
func (s *Saga) Finalize(ctx context.Context, userID uuid.UUID) (*domain.Progress, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrUserRequired
	}
	unlock := s.locks.lock(userID)
	defer unlock()

	p, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p.CompletedAt != nil {
		return p, nil
	}
	return s.finalize(ctx, p)
}

func (s *Saga) finalize(ctx context.Context, p *domain.Progress) (*domain.Progress, error) {
	if !p.HasCompleted(domain.StepCompanySetup) {
		return nil, domain.ErrSetupIncomplete
	}
	logger := s.logger.With("user_id", p.UserID.String())

	org, err := s.obtainOrganization(ctx, p)
	if err != nil {
		logger.ErrorContext(ctx, "failed to provision organization", "error", err)
		return nil, &domain.ProvisionError{Err: err}
	}
	logger = logger.With("organization_id", org.ID().String())

	// Record the organization before anything else so a retry adopts it.
	if p.OrganizationID == nil {
		p.AttachOrganization(org.ID(), s.clock.Now())
		if err := s.save(ctx, p, domain.Answers{}); err != nil {
			return nil, err
		}
	}

	s.writeSettings(ctx, p, org, logger)
	s.createChecklist(ctx, p, org, logger)

	p.MarkFinalized(s.clock.Now())
	err = sharedApplication.WithUnitOfWork(ctx, s.uow, func(txCtx context.Context) error {
		if err := s.progress.Save(txCtx, p, domain.Answers{}); err != nil {
			return domain.WrapPersistence("complete progress", err)
		}
		return s.completion(txCtx, org, p)
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to complete onboarding", "error", err)
		return nil, err
	}

	s.metrics.Counter(observability.MetricOnboardingFinalized, 1)
	logger.InfoContext(ctx, "onboarding completed", "first_action", p.Answers.FirstAction)
	return p, nil
}

// obtainOrganization fetches the known organization or creates one. An
// owner who already has an organization, including one created by a
// concurrent session, gets that organization.
func (s *Saga) obtainOrganization(ctx context.Context, p *domain.Progress) (*orgDomain.Organization, error) {
	if p.OrganizationID != nil {
		return s.provisioner.GetOrganization(ctx, *p.OrganizationID)
	}

	org, err := s.provisioner.CreateOrganization(ctx, orgApplication.CreateOrganizationCommand{
		Name:               p.Answers.CompanyName,
		OwnerUserID:        p.UserID,
		OwnerName:          p.Answers.OwnerName,
		PaymentCustomerRef: p.PaymentCustomerForOrganization(),
		CreatedVia:         "onboarding",
	})
	if errors.Is(err, orgDomain.ErrOwnerHasOrganization) {
		existing, findErr := s.provisioner.FindByOwner(ctx, p.UserID)
		if findErr != nil {
			return nil, findErr
		}
		if existing == nil {
			return nil, err
		}
		s.logger.InfoContext(ctx, "adopting existing organization",
			"user_id", p.UserID,
			"organization_id", existing.ID(),
		)
		return existing, nil
	}
	return org, err
}

func (s *Saga) writeSettings(ctx context.Context, p *domain.Progress, org *orgDomain.Organization, logger *slog.Logger) {
	if s.settings == nil {
		return
	}
	snap := domain.NewSettingsSnapshot(org.ID(), p.Answers, s.clock.Now())
	if err := s.settings.SaveSnapshot(ctx, snap); err != nil {
		logger.WarnContext(ctx, "failed to write organization settings", "error", err)
	}
}

func (s *Saga) createChecklist(ctx context.Context, p *domain.Progress, org *orgDomain.Organization, logger *slog.Logger) {
	if s.checklists == nil {
		return
	}
	now := s.clock.Now()
	c := domain.NewChecklist(p.UserID, org.ID(), now)
	_ = c.Mark(domain.ItemCompanyProfileSetup, now)
	if err := s.checklists.Create(ctx, c); err != nil {
		logger.WarnContext(ctx, "failed to create onboarding checklist", "error", err)
	}
}
