// Package event is the in-process, at-most-once event bus used for side
// effects such as notifications. Publishing never blocks the caller.
package event

import (
	"context"
	"time"
)

// EventType identifies a kind of event.
type EventType string

const (
	// EventTypeNotification asks for a notification to be delivered.
	EventTypeNotification EventType = "notification.dispatch"
)

// Status is the outcome of an event recorded in the store.
type Status string

const (
	StatusDone   Status = "done"
	StatusFailed Status = "failed"
)

// Event is a published event and, once handled, its outbox record.
type Event struct {
	ID          string            `bson:"_id" json:"id"`
	Type        EventType         `bson:"type" json:"type"`
	AggregateID string            `bson:"aggregate_id,omitempty" json:"aggregate_id,omitempty"`
	UserID      string            `bson:"user_id,omitempty" json:"user_id,omitempty"`
	Payload     any               `bson:"payload" json:"payload"`
	Metadata    map[string]string `bson:"metadata,omitempty" json:"metadata,omitempty"`
	Timestamp   time.Time         `bson:"timestamp" json:"timestamp"`
	Status      Status            `bson:"status,omitempty" json:"status,omitempty"`
	Error       string            `bson:"error,omitempty" json:"error,omitempty"`
	HandledAt   *time.Time        `bson:"handled_at,omitempty" json:"handled_at,omitempty"`
}

// Handler handles one event.
type Handler func(ctx context.Context, event *Event) error

// Filter selects stored events. Zero fields do not filter.
type Filter struct {
	Type   EventType
	Status Status
	Since  time.Time
	Limit  int64
}

// Store persists handled events.
type Store interface {
	Save(ctx context.Context, event *Event) error
	Load(ctx context.Context, id string) (*Event, error)
	// List returns matching events, newest first.
	List(ctx context.Context, filter Filter) ([]*Event, error)
}
