package outbox

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/felixgeelhaar/onramp/internal/shared/domain"
	"github.com/felixgeelhaar/onramp/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type testEvent struct {
	domain.BaseEvent
	Name string `json:"name"`
}

func newTestEvent(name string) *testEvent {
	return &testEvent{
		BaseEvent: domain.NewBaseEvent(uuid.New(), "Organization", "organization.provisioned", epoch),
		Name:      name,
	}
}

func TestNewMessage(t *testing.T) {
	event := newTestEvent("Acme Films")
	event.SetMetadata(domain.EventMetadata{UserID: uuid.New(), CorrelationID: uuid.New()})

	msg, err := NewMessage(event)

	require.NoError(t, err)
	assert.Equal(t, event.EventID(), msg.EventID)
	assert.Equal(t, event.AggregateID(), msg.AggregateID)
	assert.Equal(t, "Organization", msg.AggregateType)
	assert.Equal(t, "organization.provisioned", msg.RoutingKey)
	assert.Equal(t, epoch, msg.CreatedAt)
	assert.JSONEq(t, `{"name":"Acme Films"}`, string(msg.Payload))
	assert.Contains(t, string(msg.Metadata), event.Metadata().CorrelationID.String())
	assert.False(t, msg.IsPublished())
}

func TestNewMessages(t *testing.T) {
	msgs, err := NewMessages([]domain.DomainEvent{newTestEvent("a"), newTestEvent("b")})

	require.NoError(t, err)
	assert.Len(t, msgs, 2)
}

func TestMessage_Delivery(t *testing.T) {
	event := newTestEvent("Acme Films")
	userID := uuid.New()
	event.SetMetadata(domain.EventMetadata{UserID: userID})
	msg, err := NewMessage(event)
	require.NoError(t, err)

	delivery, err := msg.Delivery()
	require.NoError(t, err)

	assert.Equal(t, msg.EventID, delivery.ID)
	assert.Equal(t, "organization.provisioned", delivery.RoutingKey)

	var envelope eventbus.Event
	require.NoError(t, json.Unmarshal(delivery.Body, &envelope))
	assert.Equal(t, msg.EventID, envelope.EventID)
	assert.Equal(t, msg.AggregateID, envelope.AggregateID)
	assert.Equal(t, userID, envelope.Metadata.UserID)
	assert.JSONEq(t, `{"name":"Acme Films"}`, string(envelope.Payload))
}
