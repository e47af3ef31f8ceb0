package task

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/taskmgr/internal/domain"
)

// Options configures a Service.
type Options struct {
	// BlockedGuard rejects every status update of a task that is currently
	// BLOCKED with domain.ErrStatusTransitionUnavailable.
	BlockedGuard bool
	// Now overrides the clock. Defaults to time.Now.
	Now func() time.Time
}

// Service provides validated CRUD and read-side queries over a task store.
type Service struct {
	repo         domain.TaskRepository
	sink         domain.EventSink
	blockedGuard bool
	now          func() time.Time
}

// NewService creates a task service. A nil sink discards events.
func NewService(repo domain.TaskRepository, sink domain.EventSink, opts Options) *Service {
	if sink == nil {
		sink = domain.NopSink{}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		repo:         repo,
		sink:         sink,
		blockedGuard: opts.BlockedGuard,
		now:          now,
	}
}

// BlockedGuard reports whether the Blocked transition guard is enabled.
func (s *Service) BlockedGuard() bool { return s.blockedGuard }

// Create validates input, persists a new pending task and emits task.created.
func (s *Service) Create(ctx context.Context, title string, description *string) (domain.Task, error) {
	t, err := domain.NewTask(title, description, s.now())
	if err != nil {
		return domain.Task{}, fmt.Errorf("task.Create: %w", err)
	}

	saved, err := s.repo.Save(ctx, t)
	if err != nil {
		return domain.Task{}, fmt.Errorf("task.Create: %w", err)
	}

	s.emit(ctx, domain.EventTaskCreated, saved)
	log.Debug().Str("task_id", saved.ID.String()).Msg("task created")

	return saved, nil
}

// Get returns the task and true, or false when no task has that id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (domain.Task, bool, error) {
	t, ok, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Task{}, false, fmt.Errorf("task.Get: %w", err)
	}
	return t, ok, nil
}

// List returns every task in store order.
func (s *Service) List(ctx context.Context) ([]domain.Task, error) {
	tasks, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("task.List: %w", err)
	}
	return tasks, nil
}

// ListByStatus returns the tasks currently in status, in store order.
func (s *Service) ListByStatus(ctx context.Context, status domain.TaskStatus) ([]domain.Task, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("task.ListByStatus: %w: unknown status %q", domain.ErrValidation, status)
	}
	tasks, err := s.repo.FindByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("task.ListByStatus: %w", err)
	}
	return tasks, nil
}

// UpdateStatus moves a task to status. Returns domain.ErrNotFound for an
// unknown id and domain.ErrStatusTransitionUnavailable when the Blocked guard
// refuses the move; in both cases nothing is written.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TaskStatus) (domain.Task, error) {
	if !status.Valid() {
		return domain.Task{}, fmt.Errorf("task.UpdateStatus: %w: unknown status %q", domain.ErrValidation, status)
	}

	current, ok, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Task{}, fmt.Errorf("task.UpdateStatus: %w", err)
	}
	if !ok {
		return domain.Task{}, fmt.Errorf("task.UpdateStatus: task %s: %w", id, domain.ErrNotFound)
	}

	if s.blockedGuard && current.Status == domain.TaskStatusBlocked {
		return domain.Task{}, fmt.Errorf("task.UpdateStatus: task %s is blocked: %w", id, domain.ErrStatusTransitionUnavailable)
	}

	saved, err := s.repo.Save(ctx, current.WithStatus(status, s.now()))
	if err != nil {
		return domain.Task{}, fmt.Errorf("task.UpdateStatus: %w", err)
	}

	s.emit(ctx, domain.EventTaskStatusChanged, saved)
	if status == domain.TaskStatusCompleted {
		s.emit(ctx, domain.EventTaskCompleted, saved)
	}

	log.Debug().
		Str("task_id", id.String()).
		Str("from", string(current.Status)).
		Str("to", string(status)).
		Msg("task status updated")

	return saved, nil
}

// Delete removes a task. Deleting an unknown id is not an error. Only the
// caller whose delete actually removed the row emits task.deleted.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	existing, ok, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("task.Delete: %w", err)
	}
	if !ok {
		return nil
	}

	removed, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("task.Delete: %w", err)
	}
	if !removed {
		return nil
	}

	s.emit(ctx, domain.EventTaskDeleted, existing)
	return nil
}

// Priority returns the derived priority of a task.
func (s *Service) Priority(ctx context.Context, id uuid.UUID) (domain.Priority, error) {
	t, ok, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("task.Priority: %w", err)
	}
	if !ok {
		return 0, fmt.Errorf("task.Priority: task %s: %w", id, domain.ErrNotFound)
	}
	return t.Priority(), nil
}

// Summary returns a one-line description of a task.
func (s *Service) Summary(ctx context.Context, id uuid.UUID) (string, error) {
	t, ok, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("task.Summary: %w", err)
	}
	if !ok {
		return "", fmt.Errorf("task.Summary: task %s: %w", id, domain.ErrNotFound)
	}
	return "Task: " + t.Title + ", Status: " + string(t.Status), nil
}

// emit publishes to the sink after a write. Sink failures are logged only.
func (s *Service) emit(ctx context.Context, typ domain.EventType, t domain.Task) {
	e := domain.Event{
		Type:       typ,
		TaskID:     t.ID,
		Task:       &t,
		OccurredAt: s.now(),
	}
	if err := s.sink.Publish(ctx, e); err != nil {
		log.Warn().Err(err).
			Str("event", string(typ)).
			Str("task_id", t.ID.String()).
			Msg("task event publish failed")
	}
}
