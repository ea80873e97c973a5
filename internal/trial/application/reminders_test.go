package application_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/felixgeelhaar/onramp/internal/trial/application"
	"github.com/felixgeelhaar/onramp/internal/trial/domain"
	"github.com/felixgeelhaar/onramp/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) reminderEvents(t *testing.T) []domain.ReminderDue {
	t.Helper()
	msgs, err := f.outbox.Pending(context.Background(), f.clock.Now().Add(time.Hour), 1000)
	require.NoError(t, err)
	var out []domain.ReminderDue
	for _, m := range msgs {
		if m.RoutingKey != domain.RoutingKeyReminderDue {
			continue
		}
		var e domain.ReminderDue
		require.NoError(t, json.Unmarshal(m.Payload, &e))
		out = append(out, e)
	}
	return out
}

func outcomes(r *application.SweepReport) map[string]application.ReminderOutcome {
	out := make(map[string]application.ReminderOutcome, len(r.Results))
	for _, res := range r.Results {
		out[res.Name] = res.Outcome
	}
	return out
}

func TestReminderSweeper_QueuesOncePerDay(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	// Trials are 48h, so the creation day decides the reminder bucket.
	f.clock.At = start.AddDate(0, 0, -2)
	f.organization(t, "Ends Today")
	f.clock.At = start.AddDate(0, 0, -1)
	f.organization(t, "Ends Tomorrow")
	f.clock.At = start
	f.organization(t, "Ends In Two Days")

	report, err := f.sweeper.Run(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, map[string]application.ReminderOutcome{
		"Ends Today":    application.ReminderQueued,
		"Ends Tomorrow": application.ReminderQueued,
	}, outcomes(report))

	events := f.reminderEvents(t)
	require.Len(t, events, 2)
	subjects := []string{events[0].Subject, events[1].Subject}
	assert.ElementsMatch(t, []string{"Your Trial Has Ended", "Your Trial Ends Tomorrow!"}, subjects)
	assert.Equal(t, int64(1), f.metrics.GetCounter(observability.MetricRemindersDue, observability.T("days", "1")))

	// A second run the same day sends nothing new.
	f.clock.Advance(6 * time.Hour)
	report, err = f.sweeper.Run(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Count(application.ReminderSkipped))
	assert.Len(t, f.reminderEvents(t), 2)
}

func TestReminderSweeper_DryRunWritesNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.clock.At = start.AddDate(0, 0, -1)
	f.organization(t, "Ends Tomorrow")
	f.clock.At = start

	report, err := f.sweeper.Run(ctx, true)
	require.NoError(t, err)
	assert.True(t, report.DryRun)
	require.Len(t, report.Results, 1)
	assert.Equal(t, application.ReminderWouldQueue, report.Results[0].Outcome)
	assert.Equal(t, 1, report.Results[0].DaysRemaining)
	assert.Empty(t, f.reminderEvents(t))

	_, err = f.sweeper.Run(ctx, false)
	require.NoError(t, err)
	report, err = f.sweeper.Run(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, application.ReminderSkipped, report.Results[0].Outcome)
}
