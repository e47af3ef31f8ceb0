package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gosuda/taskmgr/internal/domain"
)

const taskColumns = `id, title, description, status, created_at, updated_at`

type TaskRepo struct {
	db *sql.DB
}

func NewTaskRepo(db *sql.DB) *TaskRepo {
	return &TaskRepo{db: db}
}

// Save inserts or replaces a task. created_at is never overwritten, and the
// row keeps its rowid so listing order stays insertion order.
func (r *TaskRepo) Save(ctx context.Context, t domain.Task) (domain.Task, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		     title = excluded.title,
		     description = excluded.description,
		     status = excluded.status,
		     updated_at = excluded.updated_at`,
		t.ID.String(), t.Title, t.Description, string(t.Status),
		formatTime(t.CreatedAt), formatTime(t.UpdatedAt),
	)
	if err != nil {
		return domain.Task{}, fmt.Errorf("taskRepo.Save: %w", err)
	}
	return t, nil
}

func (r *TaskRepo) FindByID(ctx context.Context, id uuid.UUID) (domain.Task, bool, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id.String())

	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Task{}, false, nil
	}
	if err != nil {
		return domain.Task{}, false, fmt.Errorf("taskRepo.FindByID: %w", err)
	}
	return t, true, nil
}

func (r *TaskRepo) FindAll(ctx context.Context) ([]domain.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("taskRepo.FindAll: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows, "taskRepo.FindAll")
}

func (r *TaskRepo) FindByStatus(ctx context.Context, status domain.TaskStatus) ([]domain.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE status = ? ORDER BY rowid`, string(status))
	if err != nil {
		return nil, fmt.Errorf("taskRepo.FindByStatus: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows, "taskRepo.FindByStatus")
}

func (r *TaskRepo) DeleteByID(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id.String())
	if err != nil {
		return false, fmt.Errorf("taskRepo.DeleteByID: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("taskRepo.DeleteByID: rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *TaskRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("taskRepo.Count: %w", err)
	}
	return n, nil
}

func (r *TaskRepo) CountByStatus(ctx context.Context, status domain.TaskStatus) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks WHERE status = ?`, string(status)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("taskRepo.CountByStatus: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (domain.Task, error) {
	var (
		t                    domain.Task
		id, status           string
		createdAt, updatedAt string
	)
	if err := s.Scan(&id, &t.Title, &t.Description, &status, &createdAt, &updatedAt); err != nil {
		return domain.Task{}, err
	}

	var err error
	if t.ID, err = uuid.Parse(id); err != nil {
		return domain.Task{}, fmt.Errorf("invalid id %q: %w", id, err)
	}
	t.Status = domain.TaskStatus(status)
	if t.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return domain.Task{}, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
	}
	if t.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return domain.Task{}, fmt.Errorf("invalid updated_at %q: %w", updatedAt, err)
	}
	return t, nil
}

func scanTasks(rows *sql.Rows, caller string) ([]domain.Task, error) {
	var tasks []domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}
	return tasks, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
