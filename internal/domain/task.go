package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusBlocked    TaskStatus = "BLOCKED"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
)

// Statuses returns every task status in declaration order.
func Statuses() []TaskStatus {
	return []TaskStatus{
		TaskStatusPending,
		TaskStatusInProgress,
		TaskStatusBlocked,
		TaskStatusCompleted,
	}
}

// Valid reports whether s is one of the four known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusBlocked, TaskStatusCompleted:
		return true
	default:
		return false
	}
}

// ParseStatus accepts a status name in any case, with "-" or " " allowed in
// place of "_" (so "in-progress" and "In Progress" both parse).
func ParseStatus(s string) (TaskStatus, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	status := TaskStatus(norm)
	if !status.Valid() {
		return "", fmt.Errorf("%w: unknown task status %q", ErrValidation, s)
	}
	return status, nil
}

// Task is a unit of work. It is handled as a value: WithStatus returns a
// modified copy and priority is always derived from Status.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewTask validates input and builds a pending task. A nil description means
// the field was absent, which is rejected; an empty description is allowed.
func NewTask(title string, description *string, now time.Time) (Task, error) {
	if strings.TrimSpace(title) == "" {
		return Task{}, fmt.Errorf("%w: task title cannot be empty", ErrValidation)
	}
	if description == nil {
		return Task{}, fmt.Errorf("%w: task description cannot be null", ErrValidation)
	}

	return Task{
		ID:          uuid.New(),
		Title:       title,
		Description: *description,
		Status:      TaskStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// WithStatus returns a copy of t moved to status. UpdatedAt never goes
// backwards, even when the clock does.
func (t Task) WithStatus(status TaskStatus, now time.Time) Task {
	t.Status = status
	if now.Before(t.UpdatedAt) {
		now = t.UpdatedAt
	}
	t.UpdatedAt = now
	return t
}

// Priority is derived from the current status on every call.
func (t Task) Priority() Priority {
	return PriorityFor(t.Status)
}

// TaskRepository is the persistence boundary for tasks. Implementations must
// return every field of a saved task unchanged on later reads.
type TaskRepository interface {
	Save(ctx context.Context, t Task) (Task, error)
	FindByID(ctx context.Context, id uuid.UUID) (Task, bool, error)
	FindAll(ctx context.Context) ([]Task, error)
	FindByStatus(ctx context.Context, status TaskStatus) ([]Task, error)
	// DeleteByID reports whether a task was removed.
	DeleteByID(ctx context.Context, id uuid.UUID) (bool, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status TaskStatus) (int64, error)
}
