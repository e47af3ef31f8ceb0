// Package memory holds an in-process task store. Iteration order is insertion
// order; concurrent saves of the same id resolve last-writer-wins.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/gosuda/taskmgr/internal/domain"
)

type TaskRepo struct {
	mu    sync.RWMutex
	tasks map[uuid.UUID]domain.Task
	order []uuid.UUID
}

func NewTaskRepo() *TaskRepo {
	return &TaskRepo{tasks: make(map[uuid.UUID]domain.Task)}
}

func (r *TaskRepo) Save(_ context.Context, t domain.Task) (domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[t.ID]; !ok {
		r.order = append(r.order, t.ID)
	}
	r.tasks[t.ID] = t
	return t, nil
}

func (r *TaskRepo) FindByID(_ context.Context, id uuid.UUID) (domain.Task, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[id]
	return t, ok, nil
}

func (r *TaskRepo) FindAll(_ context.Context) ([]domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Task, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.tasks[id])
	}
	return out, nil
}

func (r *TaskRepo) FindByStatus(_ context.Context, status domain.TaskStatus) ([]domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Task
	for _, id := range r.order {
		if t := r.tasks[id]; t.Status == status {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *TaskRepo) DeleteByID(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return false, nil
	}
	delete(r.tasks, id)
	r.order = slices.DeleteFunc(r.order, func(v uuid.UUID) bool { return v == id })
	return true, nil
}

func (r *TaskRepo) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.tasks)), nil
}

func (r *TaskRepo) CountByStatus(_ context.Context, status domain.TaskStatus) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, t := range r.tasks {
		if t.Status == status {
			n++
		}
	}
	return n, nil
}
