package events

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const producer = "storefront-api"

// EventEnvelope is the common wrapper for every published event.
type EventEnvelope[T any] struct {
	EventName     string    `json:"eventName"`
	EventVersion  int       `json:"eventVersion"`
	EventID       string    `json:"eventId"`
	CorrelationID string    `json:"correlationId,omitempty"`
	Producer      string    `json:"producer"`
	PartitionKey  string    `json:"partitionKey"`
	OccurredAt    time.Time `json:"occurredAt"`
	Payload       T         `json:"payload"`
}

func newEnvelope[T any](name string, version int, key, correlationID string, payload T) EventEnvelope[T] {
	if correlationID == "" {
		correlationID = uuid.NewString()
	}
	return EventEnvelope[T]{
		EventName:     name,
		EventVersion:  version,
		EventID:       uuid.NewString(),
		CorrelationID: correlationID,
		Producer:      producer,
		PartitionKey:  key,
		OccurredAt:    time.Now().UTC(),
		Payload:       payload,
	}
}

// Validate checks the envelope carries the expected event identity.
func (e EventEnvelope[T]) Validate(expectedName string, expectedVersion int) error {
	if e.EventName != expectedName {
		return fmt.Errorf("unexpected eventName: %s", e.EventName)
	}
	if e.EventVersion != expectedVersion {
		return fmt.Errorf("unexpected eventVersion: %d", e.EventVersion)
	}
	if e.PartitionKey == "" {
		return fmt.Errorf("missing partitionKey")
	}
	return nil
}
