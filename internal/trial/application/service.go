// Package application answers trial status, banner and access questions
// for an organization and sweeps for trial reminders.
package application

import (
	"context"
	"log/slog"
	"time"

	orgDomain "github.com/felixgeelhaar/onramp/internal/organization/domain"
	sharedDomain "github.com/felixgeelhaar/onramp/internal/shared/domain"
	"github.com/felixgeelhaar/onramp/internal/trial/domain"
	"github.com/google/uuid"
)

// OrganizationReader loads organizations. FindByID returns nil, nil when
// the organization does not exist.
type OrganizationReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*orgDomain.Organization, error)
}

// SnapshotOf extracts the fields the trial clock reads.
func SnapshotOf(org *orgDomain.Organization) domain.Snapshot {
	return domain.Snapshot{
		SubscriptionStatus: org.SubscriptionStatus(),
		SubscriptionTier:   org.SubscriptionTier(),
		TrialEndsAt:        org.TrialEndsAt(),
		PaymentCustomerRef: org.PaymentCustomerRef(),
	}
}

// StatusReport is a trial status with its display hints.
type StatusReport struct {
	OrganizationID  uuid.UUID          `json:"organization_id"`
	Status          domain.TrialStatus `json:"status"`
	Message         *domain.Message    `json:"message,omitempty"`
	RefreshInterval time.Duration      `json:"refresh_interval"`
}

// Service derives trial state from the organization record on every call.
type Service struct {
	orgs       OrganizationReader
	dismissals domain.DismissalStore
	trial      domain.Clock
	clock      sharedDomain.Clock
	logger     *slog.Logger
}

// NewService creates a trial service. dismissals, clock and logger may be
// nil; without a dismissal store banners cannot be dismissed.
func NewService(orgs OrganizationReader, dismissals domain.DismissalStore, trial domain.Clock, clock sharedDomain.Clock, logger *slog.Logger) *Service {
	if clock == nil {
		clock = sharedDomain.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if trial.Duration <= 0 {
		trial = domain.NewClock(0)
	}
	return &Service{orgs: orgs, dismissals: dismissals, trial: trial, clock: clock, logger: logger}
}

// Status returns the organization's current trial status.
func (s *Service) Status(ctx context.Context, orgID uuid.UUID) (domain.TrialStatus, error) {
	org, err := s.orgs.FindByID(ctx, orgID)
	if err != nil {
		return domain.TrialStatus{}, err
	}
	if org == nil {
		return domain.TrialStatus{}, orgDomain.ErrNotFound
	}
	return s.trial.Evaluate(s.clock.Now(), SnapshotOf(org)), nil
}

// Report returns the status with its message and refresh interval.
func (s *Service) Report(ctx context.Context, orgID uuid.UUID) (*StatusReport, error) {
	status, err := s.Status(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return &StatusReport{
		OrganizationID:  orgID,
		Status:          status,
		Message:         domain.MessageFor(status),
		RefreshInterval: domain.RefreshInterval(status),
	}, nil
}

// Banner returns what the trial banner shows in sessionID.
func (s *Service) Banner(ctx context.Context, sessionID string, orgID uuid.UUID) (domain.Banner, error) {
	status, err := s.Status(ctx, orgID)
	if err != nil {
		return domain.Banner{}, err
	}

	var (
		dismissedUnder domain.Status
		dismissed      bool
	)
	if s.dismissals != nil && sessionID != "" {
		dismissedUnder, dismissed, err = s.dismissals.Dismissed(ctx, sessionID, orgID)
		if err != nil {
			// An unreadable dismissal shows the banner.
			s.logger.WarnContext(ctx, "failed to read banner dismissal",
				"organization_id", orgID,
				"error", err,
			)
			dismissedUnder, dismissed = "", false
		}
	}
	return domain.BannerFor(status, dismissedUnder, dismissed), nil
}

// DismissBanner hides the banner for the rest of the session while the
// status stays the same.
func (s *Service) DismissBanner(ctx context.Context, sessionID string, orgID uuid.UUID) error {
	if sessionID == "" || s.dismissals == nil {
		return domain.ErrSessionRequired
	}
	status, err := s.Status(ctx, orgID)
	if err != nil {
		return err
	}
	if status.Status == domain.StatusExpired {
		return domain.ErrBannerNotDismissible
	}
	return s.dismissals.Dismiss(ctx, sessionID, orgID, status.Status)
}
