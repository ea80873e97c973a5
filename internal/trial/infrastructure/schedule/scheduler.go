// Package schedule runs the trial reminder sweep on a cron schedule.
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	trialApplication "github.com/felixgeelhaar/onramp/internal/trial/application"
	"github.com/robfig/cron/v3"
)

// Sweeper runs one reminder sweep.
type Sweeper interface {
	Run(ctx context.Context, dryRun bool) (*trialApplication.SweepReport, error)
}

// ReminderScheduler triggers a sweep for every tick of a five field cron
// expression.
type ReminderScheduler struct {
	cron    *cron.Cron
	spec    string
	sweeper Sweeper
	logger  *slog.Logger

	mu      sync.Mutex
	ctx     context.Context
	running bool
}

// NewReminderScheduler validates spec and registers the sweep. Times are
// evaluated in UTC to line up with the sweep's day windows.
func NewReminderScheduler(spec string, sweeper Sweeper, logger *slog.Logger) (*ReminderScheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &ReminderScheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		spec:    spec,
		sweeper: sweeper,
		logger:  logger,
		ctx:     context.Background(),
	}
	if _, err := s.cron.AddFunc(spec, s.tick); err != nil {
		return nil, fmt.Errorf("invalid reminder schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start begins scheduling. Sweeps run under ctx.
func (s *ReminderScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return fmt.Errorf("reminder scheduler already running")
	}
	s.ctx = ctx
	s.running = true
	s.cron.Start()
	s.logger.InfoContext(ctx, "reminder scheduler started", "schedule", s.spec)
	return nil
}

// Stop halts scheduling and waits for a running sweep to finish.
func (s *ReminderScheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	s.logger.Info("reminder scheduler stopped")
}

func (s *ReminderScheduler) tick() {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()
	if ctx.Err() != nil {
		return
	}

	report, err := s.sweeper.Run(ctx, false)
	if err != nil {
		s.logger.ErrorContext(ctx, "reminder sweep failed", "error", err)
		return
	}
	s.logger.InfoContext(ctx, "reminder sweep completed",
		"queued", report.Count(trialApplication.ReminderQueued),
		"skipped", report.Count(trialApplication.ReminderSkipped),
		"failed", report.Count(trialApplication.ReminderFailed),
	)
}
