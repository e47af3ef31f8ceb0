package v1

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gosuda/taskmgr/internal/domain"
	"github.com/gosuda/taskmgr/internal/task"
)

// TaskService abstracts task operations for handler testing.
// *task.Service satisfies this interface.
type TaskService interface {
	Create(ctx context.Context, title string, description *string) (domain.Task, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Task, bool, error)
	List(ctx context.Context) ([]domain.Task, error)
	ListByStatus(ctx context.Context, status domain.TaskStatus) ([]domain.Task, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TaskStatus) (domain.Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Priority(ctx context.Context, id uuid.UUID) (domain.Priority, error)
	Summary(ctx context.Context, id uuid.UUID) (string, error)
	Search(ctx context.Context, term string) ([]domain.Task, error)
}

// TaskQueries abstracts the read-only reporting operations.
// *task.Service satisfies this interface.
type TaskQueries interface {
	Statistics(ctx context.Context) (task.Statistics, error)
	StatusBreakdown(ctx context.Context) ([]task.StatusBreakdown, error)
	FindByTitle(ctx context.Context, term string) (domain.Task, error)
	ListByPriority(ctx context.Context, p domain.Priority) ([]domain.Task, error)
	GroupByStatus(ctx context.Context) (map[domain.TaskStatus][]domain.Task, error)
	HasStatus(ctx context.Context, status domain.TaskStatus) (bool, error)
	ListOverdue(ctx context.Context, cutoff time.Time) ([]domain.Task, error)
	ListToComplete(ctx context.Context, minPriority domain.Priority, limit int) ([]domain.Task, error)
	Report(ctx context.Context) (string, error)
	Stream(ctx context.Context, delay time.Duration, fn func(domain.Task) error) error
	AnalyzeDurations(durations []task.TaskDuration) ([]task.DurationAnalysis, error)
}
