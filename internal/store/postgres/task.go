package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gosuda/taskmgr/internal/domain"
)

const taskColumns = `id, title, description, status, created_at, updated_at`

type TaskRepo struct {
	pool *pgxpool.Pool
}

func NewTaskRepo(pool *pgxpool.Pool) *TaskRepo {
	return &TaskRepo{pool: pool}
}

// EnsureSchema creates the tasks table if it does not exist. seq records
// insertion order and is left untouched by updates.
func (r *TaskRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS tasks (
			seq         BIGSERIAL,
			id          UUID PRIMARY KEY,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status      TEXT NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL,
			updated_at  TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("taskRepo.EnsureSchema: create table: %w", err)
	}

	_, err = r.pool.Exec(ctx, `CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status)`)
	if err != nil {
		return fmt.Errorf("taskRepo.EnsureSchema: create index: %w", err)
	}

	return nil
}

func (r *TaskRepo) Save(ctx context.Context, t domain.Task) (domain.Task, error) {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO tasks (`+taskColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET
		     title = EXCLUDED.title,
		     description = EXCLUDED.description,
		     status = EXCLUDED.status,
		     updated_at = EXCLUDED.updated_at`,
		t.ID, t.Title, t.Description, t.Status, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return domain.Task{}, fmt.Errorf("taskRepo.Save: %w", err)
	}

	return t, nil
}

func (r *TaskRepo) FindByID(ctx context.Context, id uuid.UUID) (domain.Task, bool, error) {
	var t domain.Task

	err := r.pool.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1`,
		id,
	).Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Task{}, false, nil
	}
	if err != nil {
		return domain.Task{}, false, fmt.Errorf("taskRepo.FindByID: %w", err)
	}

	return t, true, nil
}

func (r *TaskRepo) FindAll(ctx context.Context) ([]domain.Task, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks ORDER BY seq`,
	)
	if err != nil {
		return nil, fmt.Errorf("taskRepo.FindAll: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows, "taskRepo.FindAll")
}

func (r *TaskRepo) FindByStatus(ctx context.Context, status domain.TaskStatus) ([]domain.Task, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE status = $1 ORDER BY seq`,
		status,
	)
	if err != nil {
		return nil, fmt.Errorf("taskRepo.FindByStatus: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows, "taskRepo.FindByStatus")
}

func (r *TaskRepo) DeleteByID(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("taskRepo.DeleteByID: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *TaskRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("taskRepo.Count: %w", err)
	}

	return n, nil
}

func (r *TaskRepo) CountByStatus(ctx context.Context, status domain.TaskStatus) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tasks WHERE status = $1`, status).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("taskRepo.CountByStatus: %w", err)
	}

	return n, nil
}

func scanTasks(rows pgx.Rows, caller string) ([]domain.Task, error) {
	var tasks []domain.Task
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}

	return tasks, nil
}
