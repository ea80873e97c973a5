package schedule

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	trialApplication "github.com/felixgeelhaar/onramp/internal/trial/application"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSweeper struct {
	runs   atomic.Int32
	dryRun atomic.Bool
	err    error
}

func (c *countingSweeper) Run(_ context.Context, dryRun bool) (*trialApplication.SweepReport, error) {
	c.runs.Add(1)
	c.dryRun.Store(dryRun)
	if c.err != nil {
		return nil, c.err
	}
	return &trialApplication.SweepReport{RanAt: time.Now()}, nil
}

func TestNewReminderScheduler_InvalidSpec(t *testing.T) {
	_, err := NewReminderScheduler("every morning", &countingSweeper{}, nil)

	assert.Error(t, err)
}

func TestReminderScheduler_TickRunsSweep(t *testing.T) {
	sweeper := &countingSweeper{}
	s, err := NewReminderScheduler("0 9 * * *", sweeper, nil)
	require.NoError(t, err)

	s.tick()

	assert.Equal(t, int32(1), sweeper.runs.Load())
	assert.False(t, sweeper.dryRun.Load())
}

func TestReminderScheduler_SweepErrorIsLogged(t *testing.T) {
	sweeper := &countingSweeper{err: assert.AnError}
	s, err := NewReminderScheduler("0 9 * * *", sweeper, nil)
	require.NoError(t, err)

	assert.NotPanics(t, s.tick)
	assert.Equal(t, int32(1), sweeper.runs.Load())
}

func TestReminderScheduler_StartStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sweeper := &countingSweeper{}
	s, err := NewReminderScheduler("@every 1s", sweeper, nil)
	require.NoError(t, err)

	require.NoError(t, s.Start(ctx))
	assert.Error(t, s.Start(ctx))
	assert.Eventually(t, func() bool { return sweeper.runs.Load() > 0 }, 3*time.Second, 10*time.Millisecond)

	s.Stop()
	s.Stop()

	// A cancelled context stops further sweeps.
	cancel()
	before := sweeper.runs.Load()
	s.tick()
	assert.Equal(t, before, sweeper.runs.Load())
}
