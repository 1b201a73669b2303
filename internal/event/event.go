package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/tilegrid/internal/event/topic"
)

// Event is a typed notification.
type Event[T any] struct {
	// Topic is the hierarchical notification name.
	Topic topic.Topic

	// Payload contains the notification data.
	Payload T

	// Metadata contains standard notification information.
	Metadata Metadata
}

// Metadata contains standard information attached to every notification.
type Metadata struct {
	// ID is a unique identifier for this notification.
	ID uuid.UUID

	// Timestamp is when the notification was created.
	Timestamp time.Time

	// Source identifies the publisher.
	Source string
}

// NewEvent creates a new event with the given topic and payload.
func NewEvent[T any](t topic.Topic, payload T, source string) Event[T] {
	return Event[T]{
		Topic:   t,
		Payload: payload,
		Metadata: Metadata{
			ID:        uuid.New(),
			Timestamp: time.Now(),
			Source:    source,
		},
	}
}

// Envelope returns the type-erased form handlers receive.
func (e Event[T]) Envelope() Envelope {
	return Envelope{Topic: e.Topic, Payload: e.Payload, Metadata: e.Metadata}
}

// Envelope wraps any notification for type-erased handling.
type Envelope struct {
	Topic    topic.Topic
	Payload  any
	Metadata Metadata
}

// PayloadAs returns the envelope payload as T.
func PayloadAs[T any](env Envelope) (T, bool) {
	v, ok := env.Payload.(T)
	return v, ok
}
