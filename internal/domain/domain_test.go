package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/taskmgr/internal/domain"
)

func strPtr(s string) *string { return &s }

// ---------------------------------------------------------------------------
// 1. PriorityFor — every status, not just a subset.
// ---------------------------------------------------------------------------

func TestPriorityFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status    domain.TaskStatus
		wantValue int
		wantLabel string
	}{
		{domain.TaskStatusPending, 1, "Low"},
		{domain.TaskStatusCompleted, 1, "Low"},
		{domain.TaskStatusInProgress, 2, "Medium"},
		{domain.TaskStatusBlocked, 3, "High"},
	}

	require.Len(t, tests, len(domain.Statuses()), "table must cover every status")

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			t.Parallel()

			p := domain.PriorityFor(tt.status)
			assert.Equal(t, tt.wantValue, p.Value())
			assert.Equal(t, tt.wantLabel, p.Label())
		})
	}
}

func TestStatusesFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		[]domain.TaskStatus{domain.TaskStatusPending, domain.TaskStatusCompleted},
		domain.StatusesFor(domain.PriorityLow))
	assert.Equal(t, []domain.TaskStatus{domain.TaskStatusInProgress}, domain.StatusesFor(domain.PriorityMedium))
	assert.Equal(t, []domain.TaskStatus{domain.TaskStatusBlocked}, domain.StatusesFor(domain.PriorityHigh))
	assert.Empty(t, domain.StatusesFor(domain.Priority(7)))
}

func TestParsePriorityValue(t *testing.T) {
	t.Parallel()

	for _, v := range []int{1, 2, 3} {
		p, err := domain.ParsePriorityValue(v)
		require.NoError(t, err)
		assert.Equal(t, v, p.Value())
	}

	for _, v := range []int{0, -1, 4} {
		_, err := domain.ParsePriorityValue(v)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}

	assert.Equal(t, "Unknown", domain.Priority(9).Label())
}

// ---------------------------------------------------------------------------
// 2. ParseStatus.
// ---------------------------------------------------------------------------

func TestParseStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    domain.TaskStatus
		wantErr bool
	}{
		{in: "PENDING", want: domain.TaskStatusPending},
		{in: "pending", want: domain.TaskStatusPending},
		{in: "in_progress", want: domain.TaskStatusInProgress},
		{in: "in-progress", want: domain.TaskStatusInProgress},
		{in: " In Progress ", want: domain.TaskStatusInProgress},
		{in: "Blocked", want: domain.TaskStatusBlocked},
		{in: "completed", want: domain.TaskStatusCompleted},
		{in: "done", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := domain.ParseStatus(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, domain.ErrValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// ---------------------------------------------------------------------------
// 3. NewTask validation.
// ---------------------------------------------------------------------------

func TestNewTask(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		task, err := domain.NewTask("Buy milk", strPtr("2% milk"), now)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, task.ID)
		assert.Equal(t, "Buy milk", task.Title)
		assert.Equal(t, "2% milk", task.Description)
		assert.Equal(t, domain.TaskStatusPending, task.Status)
		assert.Equal(t, now, task.CreatedAt)
		assert.Equal(t, now, task.UpdatedAt)
		assert.Equal(t, domain.PriorityLow, task.Priority())
	})

	t.Run("empty_description_allowed", func(t *testing.T) {
		t.Parallel()

		task, err := domain.NewTask("Title", strPtr(""), now)
		require.NoError(t, err)
		assert.Empty(t, task.Description)
	})

	t.Run("unique_ids", func(t *testing.T) {
		t.Parallel()

		a, err := domain.NewTask("a", strPtr(""), now)
		require.NoError(t, err)
		b, err := domain.NewTask("b", strPtr(""), now)
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)
	})

	invalid := []struct {
		name        string
		title       string
		description *string
	}{
		{name: "empty_title", title: "", description: strPtr("x")},
		{name: "blank_title", title: "   \t", description: strPtr("x")},
		{name: "nil_description", title: "Title", description: nil},
	}

	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := domain.NewTask(tc.title, tc.description, now)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

// ---------------------------------------------------------------------------
// 4. WithStatus keeps status, updatedAt and priority in step.
// ---------------------------------------------------------------------------

func TestTask_WithStatus(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	base, err := domain.NewTask("Buy milk", strPtr("2% milk"), created)
	require.NoError(t, err)

	for i, s := range domain.Statuses() {
		t.Run(string(s), func(t *testing.T) {
			t.Parallel()

			later := created.Add(time.Duration(i+1) * time.Minute)
			got := base.WithStatus(s, later)

			assert.Equal(t, s, got.Status)
			assert.Equal(t, domain.PriorityFor(s), got.Priority())
			assert.Equal(t, later, got.UpdatedAt)
			assert.Equal(t, base.ID, got.ID)
			assert.Equal(t, base.CreatedAt, got.CreatedAt)
			assert.Equal(t, base.Title, got.Title)
		})
	}

	t.Run("receiver_unchanged", func(t *testing.T) {
		t.Parallel()

		_ = base.WithStatus(domain.TaskStatusBlocked, created.Add(time.Hour))
		assert.Equal(t, domain.TaskStatusPending, base.Status)
		assert.Equal(t, created, base.UpdatedAt)
	})

	t.Run("clock_going_backwards", func(t *testing.T) {
		t.Parallel()

		got := base.WithStatus(domain.TaskStatusInProgress, created.Add(-time.Hour))
		assert.Equal(t, created, got.UpdatedAt)
		assert.False(t, got.UpdatedAt.Before(got.CreatedAt))
	})
}

func TestTaskStatus_Valid(t *testing.T) {
	t.Parallel()

	for _, s := range domain.Statuses() {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, domain.TaskStatus("archived").Valid())
	assert.False(t, domain.TaskStatus("pending").Valid())
}
