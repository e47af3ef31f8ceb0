package task

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/gosuda/taskmgr/internal/domain"
)

// Statistics holds the total task count and its partition over statuses.
type Statistics struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"inProgress"`
	Blocked    int64 `json:"blocked"`
	Completed  int64 `json:"completed"`
}

// StatusBreakdown describes the tasks sharing one status.
type StatusBreakdown struct {
	Status domain.TaskStatus `json:"status"`
	Count  int64             `json:"count"`
	Oldest time.Time         `json:"oldest_task"`
	Newest time.Time         `json:"newest_task"`
}

// Count returns the number of stored tasks.
func (s *Service) Count(ctx context.Context) (int64, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("task.Count: %w", err)
	}
	return n, nil
}

// CountByStatus partitions a single snapshot of the store over all four
// statuses, so the parts always sum to the snapshot size. Every status is
// present in the result, with zero when no task has it.
func (s *Service) CountByStatus(ctx context.Context) (map[domain.TaskStatus]int64, error) {
	tasks, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("task.CountByStatus: %w", err)
	}
	return countStatuses(tasks), nil
}

// Statistics returns the total and per-status counts.
func (s *Service) Statistics(ctx context.Context) (Statistics, error) {
	tasks, err := s.repo.FindAll(ctx)
	if err != nil {
		return Statistics{}, fmt.Errorf("task.Statistics: %w", err)
	}
	counts := countStatuses(tasks)
	return Statistics{
		Total:      int64(len(tasks)),
		Pending:    counts[domain.TaskStatusPending],
		InProgress: counts[domain.TaskStatusInProgress],
		Blocked:    counts[domain.TaskStatusBlocked],
		Completed:  counts[domain.TaskStatusCompleted],
	}, nil
}

// StatusBreakdown returns count, oldest and newest creation time per status.
// Statuses without tasks are omitted.
func (s *Service) StatusBreakdown(ctx context.Context) ([]StatusBreakdown, error) {
	tasks, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("task.StatusBreakdown: %w", err)
	}

	byStatus := make(map[domain.TaskStatus]*StatusBreakdown)
	for _, t := range tasks {
		b, ok := byStatus[t.Status]
		if !ok {
			b = &StatusBreakdown{Status: t.Status, Oldest: t.CreatedAt, Newest: t.CreatedAt}
			byStatus[t.Status] = b
		}
		b.Count++
		if t.CreatedAt.Before(b.Oldest) {
			b.Oldest = t.CreatedAt
		}
		if t.CreatedAt.After(b.Newest) {
			b.Newest = t.CreatedAt
		}
	}

	out := make([]StatusBreakdown, 0, len(byStatus))
	for _, st := range domain.Statuses() {
		if b, ok := byStatus[st]; ok {
			out = append(out, *b)
		}
	}
	return out, nil
}

// Search matches term case-insensitively against title and description.
// A blank term matches every task.
func (s *Service) Search(ctx context.Context, term string) ([]domain.Task, error) {
	tasks, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("task.Search: %w", err)
	}

	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return tasks, nil
	}

	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Title), needle) ||
			strings.Contains(strings.ToLower(t.Description), needle) {
			out = append(out, t)
		}
	}
	return out, nil
}

// FindByTitle returns the first task whose title contains term, ignoring case.
func (s *Service) FindByTitle(ctx context.Context, term string) (domain.Task, error) {
	tasks, err := s.repo.FindAll(ctx)
	if err != nil {
		return domain.Task{}, fmt.Errorf("task.FindByTitle: %w", err)
	}

	needle := strings.ToLower(term)
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Title), needle) {
			return t, nil
		}
	}
	return domain.Task{}, fmt.Errorf("task.FindByTitle: title %q: %w", term, domain.ErrNotFound)
}

// ListByPriority returns tasks whose derived priority is p, newest first.
func (s *Service) ListByPriority(ctx context.Context, p domain.Priority) ([]domain.Task, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("task.ListByPriority: %w: priority %d", domain.ErrValidation, p)
	}

	var out []domain.Task
	for _, st := range domain.StatusesFor(p) {
		tasks, err := s.repo.FindByStatus(ctx, st)
		if err != nil {
			return nil, fmt.Errorf("task.ListByPriority: %w", err)
		}
		out = append(out, tasks...)
	}

	slices.SortStableFunc(out, newestFirst)
	return out, nil
}

// GroupByStatus groups every task by its status. Statuses without tasks are
// absent from the map.
func (s *Service) GroupByStatus(ctx context.Context) (map[domain.TaskStatus][]domain.Task, error) {
	tasks, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("task.GroupByStatus: %w", err)
	}

	out := make(map[domain.TaskStatus][]domain.Task)
	for _, t := range tasks {
		out[t.Status] = append(out[t.Status], t)
	}
	return out, nil
}

// HasStatus reports whether at least one task is in status.
func (s *Service) HasStatus(ctx context.Context, status domain.TaskStatus) (bool, error) {
	n, err := s.repo.CountByStatus(ctx, status)
	if err != nil {
		return false, fmt.Errorf("task.HasStatus: %w", err)
	}
	return n > 0, nil
}

// ListCreatedBefore returns tasks created strictly before cutoff, newest first.
func (s *Service) ListCreatedBefore(ctx context.Context, cutoff time.Time) ([]domain.Task, error) {
	tasks, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("task.ListCreatedBefore: %w", err)
	}

	out := slices.DeleteFunc(slices.Clone(tasks), func(t domain.Task) bool {
		return !t.CreatedAt.Before(cutoff)
	})
	slices.SortStableFunc(out, newestFirst)
	return out, nil
}

// ListOverdue returns tasks created before cutoff that are not completed.
func (s *Service) ListOverdue(ctx context.Context, cutoff time.Time) ([]domain.Task, error) {
	tasks, err := s.ListCreatedBefore(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("task.ListOverdue: %w", err)
	}
	return slices.DeleteFunc(tasks, func(t domain.Task) bool {
		return t.Status == domain.TaskStatusCompleted
	}), nil
}

// ListToComplete returns unfinished tasks with priority >= minPriority,
// highest priority first and oldest first within a priority, capped at limit.
// A non-positive limit means no cap.
func (s *Service) ListToComplete(ctx context.Context, minPriority domain.Priority, limit int) ([]domain.Task, error) {
	if !minPriority.Valid() {
		return nil, fmt.Errorf("task.ListToComplete: %w: priority %d", domain.ErrValidation, minPriority)
	}

	tasks, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("task.ListToComplete: %w", err)
	}

	out := slices.DeleteFunc(slices.Clone(tasks), func(t domain.Task) bool {
		return t.Status == domain.TaskStatusCompleted || t.Priority() < minPriority
	})
	slices.SortStableFunc(out, func(a, b domain.Task) int {
		if c := cmp.Compare(b.Priority(), a.Priority()); c != 0 {
			return c
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Report renders a plain-text summary of the store.
func (s *Service) Report(ctx context.Context) (string, error) {
	stats, err := s.Statistics(ctx)
	if err != nil {
		return "", fmt.Errorf("task.Report: %w", err)
	}

	var b strings.Builder
	b.WriteString("TASK MANAGEMENT REPORT\n")
	b.WriteString("----------------------\n")
	fmt.Fprintf(&b, "Total Tasks: %d\n", stats.Total)
	fmt.Fprintf(&b, "Pending: %d\n", stats.Pending)
	fmt.Fprintf(&b, "In Progress: %d\n", stats.InProgress)
	fmt.Fprintf(&b, "Blocked: %d\n", stats.Blocked)
	fmt.Fprintf(&b, "Completed: %d\n", stats.Completed)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Last Updated: %s\n", s.now().Format(time.RFC3339))
	return b.String(), nil
}

// Stream visits a snapshot of all tasks, waiting delay before each one.
// It stops early when ctx is done or fn returns an error.
func (s *Service) Stream(ctx context.Context, delay time.Duration, fn func(domain.Task) error) error {
	tasks, err := s.repo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("task.Stream: %w", err)
	}

	for _, t := range tasks {
		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return fmt.Errorf("task.Stream: %w", ctx.Err())
			case <-timer.C:
			}
		} else if err := ctx.Err(); err != nil {
			return fmt.Errorf("task.Stream: %w", err)
		}

		if err := fn(t); err != nil {
			return fmt.Errorf("task.Stream: %w", err)
		}
	}
	return nil
}

func countStatuses(tasks []domain.Task) map[domain.TaskStatus]int64 {
	counts := make(map[domain.TaskStatus]int64, 4)
	for _, st := range domain.Statuses() {
		counts[st] = 0
	}
	for _, t := range tasks {
		counts[t.Status]++
	}
	return counts
}

func newestFirst(a, b domain.Task) int {
	return b.CreatedAt.Compare(a.CreatedAt)
}
