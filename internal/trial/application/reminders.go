package application

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	orgDomain "github.com/felixgeelhaar/onramp/internal/organization/domain"
	sharedApplication "github.com/felixgeelhaar/onramp/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/onramp/internal/shared/domain"
	"github.com/felixgeelhaar/onramp/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/onramp/internal/trial/domain"
	"github.com/felixgeelhaar/onramp/pkg/observability"
	"github.com/google/uuid"
)

// TrialLister finds trialing organizations by trial end.
type TrialLister interface {
	ListTrialEndingBetween(ctx context.Context, from, to time.Time) ([]*orgDomain.Organization, error)
}

// ReminderOutcome is what happened to one organization in a sweep.
type ReminderOutcome string

const (
	ReminderQueued     ReminderOutcome = "queued"
	ReminderSkipped    ReminderOutcome = "skipped"
	ReminderWouldQueue ReminderOutcome = "would_queue"
	ReminderFailed     ReminderOutcome = "error"
)

// ReminderResult reports a single organization.
type ReminderResult struct {
	OrganizationID uuid.UUID       `json:"organization_id"`
	Name           string          `json:"name"`
	DaysRemaining  int             `json:"days_remaining"`
	Outcome        ReminderOutcome `json:"outcome"`
	Error          string          `json:"error,omitempty"`
}

// SweepReport summarizes a sweep.
type SweepReport struct {
	RanAt   time.Time        `json:"ran_at"`
	DryRun  bool             `json:"dry_run"`
	Results []ReminderResult `json:"results"`
}

// Count returns how many results had outcome.
func (r *SweepReport) Count(outcome ReminderOutcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == outcome {
			n++
		}
	}
	return n
}

// ReminderSweeper queues trial.reminder_due events for organizations whose
// trial ends a configured number of days from today, once per day.
type ReminderSweeper struct {
	orgs      TrialLister
	reminders domain.ReminderRepository
	outbox    outbox.Repository
	uow       sharedApplication.UnitOfWork
	days      []int
	clock     sharedDomain.Clock
	metrics   observability.Metrics
	logger    *slog.Logger
}

// NewReminderSweeper creates a sweeper. Empty days means
// domain.DefaultReminderDays. uow, clock, metrics and logger may be nil.
func NewReminderSweeper(
	orgs TrialLister,
	reminders domain.ReminderRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	days []int,
	clock sharedDomain.Clock,
	metrics observability.Metrics,
	logger *slog.Logger,
) *ReminderSweeper {
	if len(days) == 0 {
		days = domain.DefaultReminderDays
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
	return &ReminderSweeper{
		orgs:      orgs,
		reminders: reminders,
		outbox:    outboxRepo,
		uow:       uow,
		days:      days,
		clock:     clock,
		metrics:   metrics,
		logger:    logger,
	}
}

// Run sweeps every reminder day. A dry run reports what would be queued
// without writing. Failures for one organization or day are reported and
// the sweep continues; only context cancellation aborts it.
func (s *ReminderSweeper) Run(ctx context.Context, dryRun bool) (*SweepReport, error) {
	now := s.clock.Now().UTC()
	report := &SweepReport{RanAt: now, DryRun: dryRun, Results: []ReminderResult{}}

	for _, days := range s.days {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		from, to := domain.DayWindow(now, days)
		orgs, err := s.orgs.ListTrialEndingBetween(ctx, from, to)
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to list trials ending",
				"days", days,
				"error", err,
			)
			continue
		}

		for _, org := range orgs {
			res := ReminderResult{OrganizationID: org.ID(), Name: org.Name(), DaysRemaining: days}
			res.Outcome, err = s.remind(ctx, org, days, now, dryRun)
			if err != nil {
				res.Outcome = ReminderFailed
				res.Error = err.Error()
				s.logger.WarnContext(ctx, "failed to queue trial reminder",
					"organization_id", org.ID(),
					"days", days,
					"error", err,
				)
			}
			report.Results = append(report.Results, res)
		}
	}

	s.logger.InfoContext(ctx, "trial reminder sweep finished",
		"dry_run", dryRun,
		"queued", report.Count(ReminderQueued),
		"skipped", report.Count(ReminderSkipped),
		"failed", report.Count(ReminderFailed),
	)
	return report, nil
}

func (s *ReminderSweeper) remind(ctx context.Context, org *orgDomain.Organization, days int, now time.Time, dryRun bool) (ReminderOutcome, error) {
	key := domain.ReminderKey(days)
	if dryRun {
		sent, err := s.reminders.Exists(ctx, org.ID(), key, now)
		if err != nil {
			return "", err
		}
		if sent {
			return ReminderSkipped, nil
		}
		return ReminderWouldQueue, nil
	}

	outcome := ReminderSkipped
	err := sharedApplication.WithUnitOfWork(ctx, s.uow, func(txCtx context.Context) error {
		recorded, err := s.reminders.Record(txCtx, domain.Reminder{
			OrganizationID: org.ID(),
			Key:            key,
			SentOn:         now,
			CreatedAt:      now,
		})
		if err != nil || !recorded {
			return err
		}

		var endsAt time.Time
		if end := org.TrialEndsAt(); end != nil {
			endsAt = *end
		}
		event := domain.NewReminderDue(org.ID(), org.Name(), org.OwnerUserID(), days, endsAt, now)
		events := []sharedDomain.DomainEvent{event}
		sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(uuid.Nil, uuid.Nil))
		msgs, err := outbox.NewMessages(events)
		if err != nil {
			return fmt.Errorf("encode reminder: %w", err)
		}
		if err := s.outbox.Save(txCtx, msgs...); err != nil {
			return err
		}
		outcome = ReminderQueued
		return nil
	})
	if err != nil {
		return "", err
	}
	if outcome == ReminderQueued {
		s.metrics.Counter(observability.MetricRemindersDue, 1, observability.T("days", strconv.Itoa(days)))
	}
	return outcome, nil
}
