package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is the interface implemented by all domain events
type DomainEvent interface {
	// EventID returns the unique identifier of this event occurrence
	EventID() uuid.UUID
	// EventType returns the event type name (e.g. "purchase.posted")
	EventType() string
	// AggregateID returns the ID of the aggregate that emitted the event
	AggregateID() uuid.UUID
	// OccurredAt returns when the event occurred
	OccurredAt() time.Time
}

// BaseDomainEvent provides common fields for domain events
type BaseDomainEvent struct {
	ID         uuid.UUID
	Type       string
	Aggregate  uuid.UUID
	OccurredOn time.Time
}

// NewBaseDomainEvent creates a new base domain event
func NewBaseDomainEvent(eventType string, aggregateID uuid.UUID) BaseDomainEvent {
	return BaseDomainEvent{
		ID:         uuid.New(),
		Type:       eventType,
		Aggregate:  aggregateID,
		OccurredOn: time.Now(),
	}
}

// EventID returns the event ID
func (e BaseDomainEvent) EventID() uuid.UUID {
	return e.ID
}

// EventType returns the event type name
func (e BaseDomainEvent) EventType() string {
	return e.Type
}

// AggregateID returns the emitting aggregate's ID
func (e BaseDomainEvent) AggregateID() uuid.UUID {
	return e.Aggregate
}

// OccurredAt returns when the event occurred
func (e BaseDomainEvent) OccurredAt() time.Time {
	return e.OccurredOn
}
