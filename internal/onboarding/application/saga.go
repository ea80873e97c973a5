// Package application runs the onboarding sequence: step completion, the
// payment step, organization provisioning at the end and the
// getting-started checklist.
package application

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/onramp/internal/onboarding/domain"
	orgApplication "github.com/felixgeelhaar/onramp/internal/organization/application"
	orgDomain "github.com/felixgeelhaar/onramp/internal/organization/domain"
	paymentApplication "github.com/felixgeelhaar/onramp/internal/payment/application"
	paymentDomain "github.com/felixgeelhaar/onramp/internal/payment/domain"
	sharedApplication "github.com/felixgeelhaar/onramp/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/onramp/internal/shared/domain"
	"github.com/felixgeelhaar/onramp/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/onramp/pkg/observability"
	"github.com/google/uuid"
)

// Provisioner creates and looks up organizations.
type Provisioner interface {
	CreateOrganization(ctx context.Context, cmd orgApplication.CreateOrganizationCommand) (*orgDomain.Organization, error)
	GetOrganization(ctx context.Context, id uuid.UUID) (*orgDomain.Organization, error)
	FindByOwner(ctx context.Context, ownerUserID uuid.UUID) (*orgDomain.Organization, error)
	AttachPaymentCustomer(ctx context.Context, orgID uuid.UUID, ref string, actor uuid.UUID) (*orgDomain.Organization, error)
}

// PaymentCoordinator captures a payment method for an account.
type PaymentCoordinator interface {
	RequestSetupIntent(ctx context.Context, req paymentApplication.SetupRequest) (*paymentDomain.FormSession, error)
	Retry(ctx context.Context, accountID uuid.UUID) (*paymentDomain.FormSession, error)
	ConfirmSetup(ctx context.Context, clientSecret, paymentMethod string) (*paymentDomain.PaymentMethodReference, error)
	Session(accountID uuid.UUID) (*paymentDomain.FormSession, bool)
}

// CompletionFunc is invoked when onboarding reaches its terminal state,
// with p already stamped. It runs in the transaction that stamps the
// completion, so an error rolls the completion back and a later finalize
// calls it again. Side effects outside that transaction must tolerate
// repeats.
type CompletionFunc func(ctx context.Context, org *orgDomain.Organization, p *domain.Progress) error

// Dependencies wires a Saga. Outbox, UnitOfWork, Clock, Completion,
// Metrics and Logger may be nil.
type Dependencies struct {
	Progress    domain.ProgressRepository
	Checklists  domain.ChecklistRepository
	Settings    domain.SettingsRepository
	Provisioner Provisioner
	Payments    PaymentCoordinator
	Outbox      outbox.Repository
	UnitOfWork  sharedApplication.UnitOfWork
	Clock       sharedDomain.Clock
	Completion  CompletionFunc
	Metrics     observability.Metrics
	Logger      *slog.Logger
}

// Saga drives a user through onboarding. Operations for the same user are
// serialized; it is safe for concurrent use.
type Saga struct {
	progress    domain.ProgressRepository
	checklists  domain.ChecklistRepository
	settings    domain.SettingsRepository
	provisioner Provisioner
	payments    PaymentCoordinator
	outbox      outbox.Repository
	uow         sharedApplication.UnitOfWork
	clock       sharedDomain.Clock
	completion  CompletionFunc
	metrics     observability.Metrics
	logger      *slog.Logger
	locks       *userLocks
}

// NewSaga creates a saga. Without a Completion func it records an
// onboarding.completed outbox event.
func NewSaga(deps Dependencies) *Saga {
	s := &Saga{
		progress:    deps.Progress,
		checklists:  deps.Checklists,
		settings:    deps.Settings,
		provisioner: deps.Provisioner,
		payments:    deps.Payments,
		outbox:      deps.Outbox,
		uow:         deps.UnitOfWork,
		clock:       deps.Clock,
		completion:  deps.Completion,
		metrics:     deps.Metrics,
		logger:      deps.Logger,
		locks:       newUserLocks(),
	}
	if s.clock == nil {
		s.clock = sharedDomain.SystemClock{}
	}
	if s.metrics == nil {
		s.metrics = observability.NoopMetrics{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.completion == nil {
		s.completion = OutboxCompletion(s.outbox, s.clock)
	}
	return s
}

// OutboxCompletion returns a CompletionFunc that records an
// onboarding.completed event. A nil repository makes it a no-op.
func OutboxCompletion(repo outbox.Repository, clock sharedDomain.Clock) CompletionFunc {
	return func(ctx context.Context, org *orgDomain.Organization, p *domain.Progress) error {
		if repo == nil {
			return nil
		}
		events := []sharedDomain.DomainEvent{domain.NewCompleted(p, org.ID(), clock.Now())}
		sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(p.UserID, uuid.Nil))
		msgs, err := outbox.NewMessages(events)
		if err != nil {
			return err
		}
		return repo.Save(ctx, msgs...)
	}
}

// LoadProgress returns the user's progress, creating it at the first step
// when absent.
func (s *Saga) LoadProgress(ctx context.Context, userID uuid.UUID) (*domain.Progress, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrUserRequired
	}
	unlock := s.locks.lock(userID)
	defer unlock()
	return s.load(ctx, userID)
}

func (s *Saga) load(ctx context.Context, userID uuid.UUID) (*domain.Progress, error) {
	p, err := s.progress.Find(ctx, userID)
	if err != nil {
		return nil, domain.WrapPersistence("load progress", err)
	}
	if p != nil {
		return p, nil
	}

	fresh := domain.NewProgress(userID, s.clock.Now())
	if err := s.progress.Create(ctx, fresh); err != nil {
		return nil, domain.WrapPersistence("create progress", err)
	}
	// Another process may have created the row first.
	p, err = s.progress.Find(ctx, userID)
	if err != nil {
		return nil, domain.WrapPersistence("load progress", err)
	}
	if p == nil {
		return fresh, nil
	}
	return p, nil
}

// NeedsOnboarding reports whether the user still has onboarding ahead.
func (s *Saga) NeedsOnboarding(ctx context.Context, userID uuid.UUID) (bool, error) {
	if userID == uuid.Nil {
		return false, domain.ErrUserRequired
	}
	p, err := s.progress.Find(ctx, userID)
	if err != nil {
		return false, domain.WrapPersistence("load progress", err)
	}
	return p == nil || !p.IsComplete(), nil
}

// CompleteStep validates and records a step's answers, then advances.
// Completing the last step finalizes onboarding, and a call made while a
// failed finalize is pending retries it. Calls after completion return the
// terminal progress unchanged.
func (s *Saga) CompleteStep(ctx context.Context, userID uuid.UUID, step domain.StepID, input domain.Answers) (*domain.Progress, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrUserRequired
	}
	unlock := s.locks.lock(userID)
	defer unlock()

	p, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p.AwaitingFinalize() {
		return s.finalize(ctx, p)
	}
	if p.IsComplete() {
		return p, nil
	}
	if err := domain.Validate(step, input); err != nil {
		return nil, err
	}
	return s.completeStep(ctx, p, step, input.ForStep(step))
}

func (s *Saga) completeStep(ctx context.Context, p *domain.Progress, step domain.StepID, patch domain.Answers) (*domain.Progress, error) {
	if err := p.CompleteStep(step, patch, s.clock.Now()); err != nil {
		return nil, err
	}
	event := domain.NewStepCompleted(p, step, s.clock.Now())
	if err := s.save(ctx, p, patch, event); err != nil {
		return nil, err
	}

	s.metrics.Counter(observability.MetricStepsCompleted, 1, observability.T("step", string(step)))
	s.logger.InfoContext(ctx, "onboarding step completed",
		"user_id", p.UserID,
		"step", string(step),
		"current_step", string(p.CurrentStep),
	)

	if p.AwaitingFinalize() {
		return s.finalize(ctx, p)
	}
	return p, nil
}

// SkipStep passes over an optional step. Required steps return
// ErrStepNotSkippable without changing anything. Skipping billing records
// a declined payment choice, as DeclinePayment does.
func (s *Saga) SkipStep(ctx context.Context, userID uuid.UUID, step domain.StepID) (*domain.Progress, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrUserRequired
	}
	unlock := s.locks.lock(userID)
	defer unlock()

	p, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p.AwaitingFinalize() {
		return s.finalize(ctx, p)
	}
	if p.IsComplete() {
		return p, nil
	}
	return s.skipStep(ctx, p, step)
}

func (s *Saga) skipStep(ctx context.Context, p *domain.Progress, step domain.StepID) (*domain.Progress, error) {
	if err := p.SkipStep(step, s.clock.Now()); err != nil {
		return nil, err
	}
	event := domain.NewStepSkipped(p, step, s.clock.Now())
	if err := s.save(ctx, p, domain.Answers{}, event); err != nil {
		return nil, err
	}

	s.metrics.Counter(observability.MetricStepsSkipped, 1, observability.T("step", string(step)))
	s.logger.InfoContext(ctx, "onboarding step skipped",
		"user_id", p.UserID,
		"step", string(step),
		"current_step", string(p.CurrentStep),
	)

	if p.AwaitingFinalize() {
		return s.finalize(ctx, p)
	}
	return p, nil
}

// save writes the progress and its events in one unit of work.
func (s *Saga) save(ctx context.Context, p *domain.Progress, patch domain.Answers, events ...sharedDomain.DomainEvent) error {
	err := sharedApplication.WithUnitOfWork(ctx, s.uow, func(txCtx context.Context) error {
		if err := s.progress.Save(txCtx, p, patch); err != nil {
			return err
		}
		return s.saveEvents(txCtx, p.UserID, events)
	})
	return domain.WrapPersistence("save progress", err)
}

func (s *Saga) saveEvents(ctx context.Context, userID uuid.UUID, events []sharedDomain.DomainEvent) error {
	if s.outbox == nil || len(events) == 0 {
		return nil
	}
	sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(userID, uuid.Nil))
	msgs, err := outbox.NewMessages(events)
	if err != nil {
		return err
	}
	return s.outbox.Save(ctx, msgs...)
}
