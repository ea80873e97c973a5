package eventbus

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Message is one broker delivery. Body holds an encoded Event.
type Message struct {
	ID         uuid.UUID
	RoutingKey string
	Body       []byte
	OccurredAt time.Time
}

// Event is the JSON envelope every lifecycle event travels in.
type Event struct {
	EventID       uuid.UUID       `json:"event_id"`
	AggregateID   uuid.UUID       `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	RoutingKey    string          `json:"routing_key"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
	Metadata      EventMetadata   `json:"metadata"`
}

// EventMetadata carries tracing fields alongside the payload.
type EventMetadata struct {
	UserID        uuid.UUID `json:"user_id"`
	CorrelationID uuid.UUID `json:"correlation_id"`
	CausationID   uuid.UUID `json:"causation_id"`
}

// Decode parses a message body into its envelope. The routing key of the
// message fills in an envelope that lacks one.
func Decode(msg Message) (*Event, error) {
	var event Event
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		return nil, err
	}
	if event.RoutingKey == "" {
		event.RoutingKey = msg.RoutingKey
	}
	return &event, nil
}
