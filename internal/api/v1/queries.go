package v1

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/gosuda/taskmgr/internal/domain"
	"github.com/gosuda/taskmgr/internal/task"
)

type FindByTitleInput struct {
	Title string `path:"title" doc:"Text to look for in task titles"`
}

type PriorityValueInput struct {
	Value int `path:"value" doc:"Priority value, 1 (low) to 3 (high)"`
}

type StatisticsOutput struct {
	Body task.Statistics
}

type StatusBreakdownOutput struct {
	Body []task.StatusBreakdown
}

type GroupByStatusOutput struct {
	Body map[string][]TaskResponse
}

type HasStatusInput struct {
	Status string `path:"status" doc:"Task status"`
}

type HasStatusOutput struct {
	Body struct {
		Status string `json:"status"`
		Exists bool   `json:"exists"`
	}
}

type OverdueInput struct {
	Before time.Time `query:"before" required:"true" doc:"Cutoff timestamp (RFC 3339)"`
}

type ToCompleteInput struct {
	MinPriority int `query:"min_priority" default:"1" doc:"Lowest priority value to include"`
	Limit       int `query:"limit" doc:"Maximum number of tasks, 0 for no limit"`
}

type DurationEntry struct {
	ID       uuid.UUID `json:"id" doc:"Task ID"`
	Duration string    `json:"duration" doc:"Duration such as 45m or 2h30m"`
}

type AnalyzeDurationsInput struct {
	Body []DurationEntry
}

type AnalyzeDurationsOutput struct {
	Body []task.DurationAnalysis
}

func RegisterQueryRoutes(api huma.API, q TaskQueries) {
	huma.Register(api, huma.Operation{
		OperationID: "find-task-by-title",
		Method:      http.MethodGet,
		Path:        "/tasks/title/{title}",
		Summary:     "Find the first task whose title contains the text",
		Tags:        []string{"Queries"},
	}, func(ctx context.Context, input *FindByTitleInput) (*TaskOutput, error) {
		t, err := q.FindByTitle(ctx, input.Title)
		if err != nil {
			return nil, serviceError(err, "failed to find task")
		}

		return &TaskOutput{Body: newTaskResponse(t)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-tasks-by-priority",
		Method:      http.MethodGet,
		Path:        "/tasks/priority/{value}",
		Summary:     "List tasks whose status maps to a priority",
		Tags:        []string{"Queries"},
	}, func(ctx context.Context, input *PriorityValueInput) (*ListTasksOutput, error) {
		p, err := domain.ParsePriorityValue(input.Value)
		if err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}

		tasks, err := q.ListByPriority(ctx, p)
		if err != nil {
			return nil, serviceError(err, "failed to list tasks by priority")
		}

		return &ListTasksOutput{Body: newTaskResponses(tasks)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-task-statistics",
		Method:      http.MethodGet,
		Path:        "/tasks/statistics",
		Summary:     "Count tasks in total and per status",
		Tags:        []string{"Queries"},
	}, func(ctx context.Context, _ *struct{}) (*StatisticsOutput, error) {
		stats, err := q.Statistics(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to compute statistics", err)
		}

		return &StatisticsOutput{Body: stats}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-status-statistics",
		Method:      http.MethodGet,
		Path:        "/tasks/status-statistics",
		Summary:     "Per-status counts with oldest and newest creation times",
		Tags:        []string{"Queries"},
	}, func(ctx context.Context, _ *struct{}) (*StatusBreakdownOutput, error) {
		breakdown, err := q.StatusBreakdown(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to compute status statistics", err)
		}
		if breakdown == nil {
			breakdown = []task.StatusBreakdown{}
		}

		return &StatusBreakdownOutput{Body: breakdown}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "group-tasks-by-status",
		Method:      http.MethodGet,
		Path:        "/tasks/group-by-status",
		Summary:     "Group tasks by status",
		Tags:        []string{"Queries"},
	}, func(ctx context.Context, _ *struct{}) (*GroupByStatusOutput, error) {
		groups, err := q.GroupByStatus(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to group tasks", err)
		}

		out := &GroupByStatusOutput{Body: make(map[string][]TaskResponse, len(groups))}
		for status, tasks := range groups {
			out.Body[string(status)] = newTaskResponses(tasks)
		}
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "has-status",
		Method:      http.MethodGet,
		Path:        "/tasks/has-status/{status}",
		Summary:     "Report whether any task is in a status",
		Tags:        []string{"Queries"},
	}, func(ctx context.Context, input *HasStatusInput) (*HasStatusOutput, error) {
		status, err := domain.ParseStatus(input.Status)
		if err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}

		exists, err := q.HasStatus(ctx, status)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to check status", err)
		}

		out := &HasStatusOutput{}
		out.Body.Status = string(status)
		out.Body.Exists = exists
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-overdue-tasks",
		Method:      http.MethodGet,
		Path:        "/tasks/overdue",
		Summary:     "List unfinished tasks created before a cutoff",
		Tags:        []string{"Queries"},
	}, func(ctx context.Context, input *OverdueInput) (*ListTasksOutput, error) {
		tasks, err := q.ListOverdue(ctx, input.Before)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list overdue tasks", err)
		}

		return &ListTasksOutput{Body: newTaskResponses(tasks)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-tasks-to-complete",
		Method:      http.MethodGet,
		Path:        "/tasks/to-complete",
		Summary:     "List unfinished tasks by descending priority",
		Tags:        []string{"Queries"},
	}, func(ctx context.Context, input *ToCompleteInput) (*ListTasksOutput, error) {
		p, err := domain.ParsePriorityValue(input.MinPriority)
		if err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}

		tasks, err := q.ListToComplete(ctx, p, input.Limit)
		if err != nil {
			return nil, serviceError(err, "failed to list tasks to complete")
		}

		return &ListTasksOutput{Body: newTaskResponses(tasks)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-task-report",
		Method:      http.MethodGet,
		Path:        "/tasks/report",
		Summary:     "Plain-text report of task counts",
		Tags:        []string{"Queries"},
	}, func(ctx context.Context, _ *struct{}) (*TextOutput, error) {
		report, err := q.Report(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to build report", err)
		}

		return newTextOutput(report), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "analyze-task-durations",
		Method:      http.MethodPost,
		Path:        "/tasks/analyze-durations",
		Summary:     "Classify durations as quick, medium or long",
		Tags:        []string{"Queries"},
	}, func(_ context.Context, input *AnalyzeDurationsInput) (*AnalyzeDurationsOutput, error) {
		durations := make([]task.TaskDuration, 0, len(input.Body))
		for i, entry := range input.Body {
			d, err := time.ParseDuration(entry.Duration)
			if err != nil {
				return nil, huma.Error400BadRequest(fmt.Sprintf("entry %d: invalid duration %q", i, entry.Duration))
			}
			durations = append(durations, task.TaskDuration{ID: entry.ID, Duration: d})
		}

		analysis, err := q.AnalyzeDurations(durations)
		if err != nil {
			return nil, serviceError(err, "failed to analyze durations")
		}

		return &AnalyzeDurationsOutput{Body: analysis}, nil
	})
}
