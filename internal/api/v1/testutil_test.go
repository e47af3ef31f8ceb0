package v1_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gosuda/taskmgr/internal/domain"
	"github.com/gosuda/taskmgr/internal/task"
)

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

var fixedTime = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC) //nolint:gochecknoglobals // test fixture

func taskWith(title string, status domain.TaskStatus) domain.Task {
	return domain.Task{
		ID:          uuid.New(),
		Title:       title,
		Description: title + " description",
		Status:      status,
		CreatedAt:   fixedTime,
		UpdatedAt:   fixedTime,
	}
}

// ---------------------------------------------------------------------------
// Mock TaskService / TaskQueries
// ---------------------------------------------------------------------------

type mockTaskService struct {
	createFunc          func(ctx context.Context, title string, description *string) (domain.Task, error)
	getFunc             func(ctx context.Context, id uuid.UUID) (domain.Task, bool, error)
	listFunc            func(ctx context.Context) ([]domain.Task, error)
	listByStatusFunc    func(ctx context.Context, status domain.TaskStatus) ([]domain.Task, error)
	updateStatusFunc    func(ctx context.Context, id uuid.UUID, status domain.TaskStatus) (domain.Task, error)
	deleteFunc          func(ctx context.Context, id uuid.UUID) error
	priorityFunc        func(ctx context.Context, id uuid.UUID) (domain.Priority, error)
	summaryFunc         func(ctx context.Context, id uuid.UUID) (string, error)
	searchFunc          func(ctx context.Context, term string) ([]domain.Task, error)
	statisticsFunc      func(ctx context.Context) (task.Statistics, error)
	statusBreakdownFunc func(ctx context.Context) ([]task.StatusBreakdown, error)
	findByTitleFunc     func(ctx context.Context, term string) (domain.Task, error)
	listByPriorityFunc  func(ctx context.Context, p domain.Priority) ([]domain.Task, error)
	groupByStatusFunc   func(ctx context.Context) (map[domain.TaskStatus][]domain.Task, error)
	hasStatusFunc       func(ctx context.Context, status domain.TaskStatus) (bool, error)
	listOverdueFunc     func(ctx context.Context, cutoff time.Time) ([]domain.Task, error)
	listToCompleteFunc  func(ctx context.Context, minPriority domain.Priority, limit int) ([]domain.Task, error)
	reportFunc          func(ctx context.Context) (string, error)
	streamFunc          func(ctx context.Context, delay time.Duration, fn func(domain.Task) error) error
	analyzeFunc         func(durations []task.TaskDuration) ([]task.DurationAnalysis, error)
}

func (m *mockTaskService) Create(ctx context.Context, title string, description *string) (domain.Task, error) {
	return m.createFunc(ctx, title, description)
}

func (m *mockTaskService) Get(ctx context.Context, id uuid.UUID) (domain.Task, bool, error) {
	return m.getFunc(ctx, id)
}

func (m *mockTaskService) List(ctx context.Context) ([]domain.Task, error) {
	return m.listFunc(ctx)
}

func (m *mockTaskService) ListByStatus(ctx context.Context, status domain.TaskStatus) ([]domain.Task, error) {
	return m.listByStatusFunc(ctx, status)
}

func (m *mockTaskService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TaskStatus) (domain.Task, error) {
	return m.updateStatusFunc(ctx, id, status)
}

func (m *mockTaskService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFunc(ctx, id)
}

func (m *mockTaskService) Priority(ctx context.Context, id uuid.UUID) (domain.Priority, error) {
	return m.priorityFunc(ctx, id)
}

func (m *mockTaskService) Summary(ctx context.Context, id uuid.UUID) (string, error) {
	return m.summaryFunc(ctx, id)
}

func (m *mockTaskService) Search(ctx context.Context, term string) ([]domain.Task, error) {
	return m.searchFunc(ctx, term)
}

func (m *mockTaskService) Statistics(ctx context.Context) (task.Statistics, error) {
	return m.statisticsFunc(ctx)
}

func (m *mockTaskService) StatusBreakdown(ctx context.Context) ([]task.StatusBreakdown, error) {
	return m.statusBreakdownFunc(ctx)
}

func (m *mockTaskService) FindByTitle(ctx context.Context, term string) (domain.Task, error) {
	return m.findByTitleFunc(ctx, term)
}

func (m *mockTaskService) ListByPriority(ctx context.Context, p domain.Priority) ([]domain.Task, error) {
	return m.listByPriorityFunc(ctx, p)
}

func (m *mockTaskService) GroupByStatus(ctx context.Context) (map[domain.TaskStatus][]domain.Task, error) {
	return m.groupByStatusFunc(ctx)
}

func (m *mockTaskService) HasStatus(ctx context.Context, status domain.TaskStatus) (bool, error) {
	return m.hasStatusFunc(ctx, status)
}

func (m *mockTaskService) ListOverdue(ctx context.Context, cutoff time.Time) ([]domain.Task, error) {
	return m.listOverdueFunc(ctx, cutoff)
}

func (m *mockTaskService) ListToComplete(ctx context.Context, minPriority domain.Priority, limit int) ([]domain.Task, error) {
	return m.listToCompleteFunc(ctx, minPriority, limit)
}

func (m *mockTaskService) Report(ctx context.Context) (string, error) {
	return m.reportFunc(ctx)
}

func (m *mockTaskService) Stream(ctx context.Context, delay time.Duration, fn func(domain.Task) error) error {
	return m.streamFunc(ctx, delay, fn)
}

func (m *mockTaskService) AnalyzeDurations(durations []task.TaskDuration) ([]task.DurationAnalysis, error) {
	return m.analyzeFunc(durations)
}
