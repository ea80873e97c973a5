package domain_test

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/onramp/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type testAggregate struct {
	domain.BaseAggregateRoot
	Name string
}

type testAggregateEvent struct {
	domain.BaseEvent
}

func newTestAggregateEvent(aggregateID uuid.UUID) testAggregateEvent {
	return testAggregateEvent{
		BaseEvent: domain.NewBaseEvent(aggregateID, "TestAggregate", "test.aggregate.created", epoch),
	}
}

func TestBaseAggregateRoot_CollectsEventsInOrder(t *testing.T) {
	agg := &testAggregate{BaseAggregateRoot: domain.NewBaseAggregateRoot(epoch), Name: "Test"}
	assert.Empty(t, agg.DomainEvents())

	first := newTestAggregateEvent(agg.ID())
	second := newTestAggregateEvent(agg.ID())
	agg.AddDomainEvent(first)
	agg.AddDomainEvent(second)

	events := agg.DomainEvents()
	assert.Len(t, events, 2)
	assert.Equal(t, first.EventID(), events[0].EventID())
	assert.Equal(t, second.EventID(), events[1].EventID())

	agg.ClearDomainEvents()
	assert.Empty(t, agg.DomainEvents())
}

func TestNewBaseAggregateRootWithID(t *testing.T) {
	id := uuid.New()
	agg := domain.NewBaseAggregateRootWithID(id, epoch)

	assert.Equal(t, id, agg.ID())
	assert.Equal(t, epoch, agg.CreatedAt())
}
