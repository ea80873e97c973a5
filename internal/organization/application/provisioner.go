// Package application provisions organizations and applies the admin
// trial operations.
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/felixgeelhaar/onramp/internal/organization/domain"
	sharedApplication "github.com/felixgeelhaar/onramp/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/onramp/internal/shared/domain"
	"github.com/felixgeelhaar/onramp/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/onramp/pkg/observability"
	"github.com/google/uuid"
)

const maxSlugAttempts = 3

// Config tunes the provisioner.
type Config struct {
	TrialDuration time.Duration
}

// Provisioner creates organizations at most once per owner.
type Provisioner struct {
	orgs    domain.Repository
	members domain.MemberRepository
	records domain.RecordRepository
	outbox  outbox.Repository
	uow     sharedApplication.UnitOfWork
	config  Config
	clock   sharedDomain.Clock
	suffix  func() string
	metrics observability.Metrics
	logger  *slog.Logger
}

// NewProvisioner wires a provisioner. records, outboxRepo, uow, clock,
// metrics and logger may be nil.
func NewProvisioner(
	orgs domain.Repository,
	members domain.MemberRepository,
	records domain.RecordRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	config Config,
	clock sharedDomain.Clock,
	metrics observability.Metrics,
	logger *slog.Logger,
) *Provisioner {
	if config.TrialDuration <= 0 {
		config.TrialDuration = 48 * time.Hour
	}
	if clock == nil {
		clock = sharedDomain.SystemClock{}
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Provisioner{
		orgs:    orgs,
		members: members,
		records: records,
		outbox:  outboxRepo,
		uow:     uow,
		config:  config,
		clock:   clock,
		suffix:  domain.RandomSuffix,
		metrics: metrics,
		logger:  logger,
	}
}

// SetSuffixFunc replaces the random slug suffix source.
func (p *Provisioner) SetSuffixFunc(fn func() string) {
	if fn != nil {
		p.suffix = fn
	}
}

// CreateOrganizationCommand contains the data needed to provision.
type CreateOrganizationCommand struct {
	Name               string
	OwnerUserID        uuid.UUID
	OwnerName          string
	PaymentCustomerRef string
	CorrelationID      uuid.UUID
	CreatedVia         string
}

// CreateOrganization provisions a trialing organization with its owner
// membership. It returns ErrOwnerHasOrganization when the owner already has
// one, including when a concurrent call won the race.
func (p *Provisioner) CreateOrganization(ctx context.Context, cmd CreateOrganizationCommand) (*domain.Organization, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if cmd.OwnerUserID == uuid.Nil {
		return nil, domain.ErrOwnerRequired
	}

	existing, err := p.orgs.FindByOwner(ctx, cmd.OwnerUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up owner organization: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrOwnerHasOrganization
	}

	base := domain.Slugify(name)
	slug, err := p.availableSlug(ctx, base)
	if err != nil {
		return nil, err
	}

	var org *domain.Organization
	for attempt := 1; ; attempt++ {
		now := p.clock.Now()
		org, err = domain.NewOrganization(name, slug, cmd.OwnerUserID, cmd.OwnerName, cmd.PaymentCustomerRef, p.config.TrialDuration, now)
		if err != nil {
			return nil, err
		}

		err = sharedApplication.WithUnitOfWork(ctx, p.uow, func(txCtx context.Context) error {
			if err := p.orgs.Create(txCtx, org); err != nil {
				return err
			}
			if err := p.members.Add(txCtx, domain.NewOwner(org, cmd.OwnerName, now)); err != nil {
				return fmt.Errorf("failed to create owner membership: %w", err)
			}
			return p.saveEvents(txCtx, org, cmd.OwnerUserID, cmd.CorrelationID)
		})
		if errors.Is(err, domain.ErrSlugTaken) && attempt < maxSlugAttempts {
			slug = domain.WithSuffix(base, p.suffix())
			continue
		}
		if err != nil {
			return nil, err
		}
		break
	}

	p.writeRecords(ctx, org, cmd)
	p.metrics.Counter(observability.MetricOrganizationsCreated, 1)
	p.logger.InfoContext(ctx, "organization provisioned",
		"organization_id", org.ID(),
		"user_id", cmd.OwnerUserID,
		"slug", org.Slug(),
	)
	return org, nil
}

func (p *Provisioner) availableSlug(ctx context.Context, base string) (string, error) {
	taken, err := p.orgs.SlugExists(ctx, base)
	if err != nil {
		return "", fmt.Errorf("failed to check slug: %w", err)
	}
	if !taken {
		return base, nil
	}
	return domain.WithSuffix(base, p.suffix()), nil
}

// writeRecords stores the trial subscription and audit rows after commit.
// Failures are logged only.
func (p *Provisioner) writeRecords(ctx context.Context, org *domain.Organization, cmd CreateOrganizationCommand) {
	if p.records == nil {
		return
	}
	now := p.clock.Now()
	createdVia := cmd.CreatedVia
	if createdVia == "" {
		createdVia = "onboarding"
	}

	if err := p.records.CreateTrialSubscription(ctx, domain.NewTrialSubscription(org, createdVia, now)); err != nil {
		p.logger.WarnContext(ctx, "failed to record trial subscription",
			"organization_id", org.ID(),
			"error", err,
		)
	}

	metadata := map[string]string{"source": createdVia}
	if end := org.TrialEndsAt(); end != nil {
		metadata["trial_ends_at"] = end.Format(time.RFC3339)
	}
	entry := domain.NewAuditEntry(org, cmd.OwnerUserID, domain.AuditActionCreate, metadata, now)
	if err := p.records.AppendAudit(ctx, entry); err != nil {
		p.logger.WarnContext(ctx, "failed to write audit log",
			"organization_id", org.ID(),
			"error", err,
		)
	}
}

func (p *Provisioner) saveEvents(ctx context.Context, org *domain.Organization, userID, correlationID uuid.UUID) error {
	defer org.ClearDomainEvents()
	if p.outbox == nil {
		return nil
	}
	events := org.DomainEvents()
	if len(events) == 0 {
		return nil
	}
	sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(userID, correlationID))
	msgs, err := outbox.NewMessages(events)
	if err != nil {
		return err
	}
	return p.outbox.Save(ctx, msgs...)
}
