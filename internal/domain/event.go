package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventTaskCreated       EventType = "task.created"
	EventTaskCompleted     EventType = "task.completed"
	EventTaskStatusChanged EventType = "task.status_changed"
	EventTaskDeleted       EventType = "task.deleted"
)

// Event is emitted after a successful store write.
type Event struct {
	Type       EventType `json:"type"`
	TaskID     uuid.UUID `json:"task_id"`
	Task       *Task     `json:"task,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventSink receives task events. Publish must not block indefinitely.
type EventSink interface {
	Publish(ctx context.Context, e Event) error
}

// NopSink discards every event.
type NopSink struct{}

func (NopSink) Publish(context.Context, Event) error { return nil }
