package application

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/onramp/internal/trial/domain"
	"github.com/felixgeelhaar/onramp/pkg/observability"
	"github.com/google/uuid"
)

// Decision is the outcome of an access check.
type Decision struct {
	Allowed bool                   `json:"allowed"`
	Action  domain.Action          `json:"action"`
	Status  domain.TrialStatus     `json:"status"`
	Blocked *domain.BlockedMessage `json:"blocked,omitempty"`
}

// Gate allows or denies actions under the organization's trial state.
type Gate struct {
	service *Service
	metrics observability.Metrics
	logger  *slog.Logger
}

// NewGate creates a gate. metrics and logger may be nil.
func NewGate(service *Service, metrics observability.Metrics, logger *slog.Logger) *Gate {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{service: service, metrics: metrics, logger: logger}
}

// Check re-derives the trial status and decides whether action may run.
func (g *Gate) Check(ctx context.Context, orgID uuid.UUID, action domain.Action) (Decision, error) {
	status, err := g.service.Status(ctx, orgID)
	if err != nil {
		return Decision{}, err
	}

	d := Decision{Action: action, Status: status, Allowed: domain.IsActionAllowed(status, action)}
	if !d.Allowed {
		msg := domain.BlockedActionMessage()
		d.Blocked = &msg
		g.metrics.Counter(observability.MetricAccessDenied, 1, observability.T("action", string(action)))
		g.logger.InfoContext(ctx, "action blocked by expired trial",
			"organization_id", orgID,
			"action", string(action),
		)
	}
	return d, nil
}
