package v1

import (
	"context"
	"errors"
	"net/http"
	"slices"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/gosuda/taskmgr/internal/domain"
)

type CreateTaskInput struct {
	Body struct {
		Title       string  `json:"title" maxLength:"500" doc:"Task title"`
		Description *string `json:"description,omitempty" doc:"Task description"`
	}
}

type TaskOutput struct {
	Body TaskResponse
}

type ListTasksInput struct {
	Status string `query:"status" doc:"Filter by status"`
	Query  string `query:"q" doc:"Case-insensitive search over title and description"`
}

type ListTasksOutput struct {
	Body []TaskResponse
}

type TaskIDInput struct {
	ID uuid.UUID `path:"id" doc:"Task ID"`
}

type UpdateTaskStatusInput struct {
	ID   uuid.UUID `path:"id" doc:"Task ID"`
	Body struct {
		Status string `json:"status" doc:"Target status"`
	}
}

// UpdateTaskStatusOutput has no body when the change was refused.
type UpdateTaskStatusOutput struct {
	Status int
	Body   *TaskResponse
}

type PriorityOutput struct {
	Body PriorityResponse
}

func RegisterTaskRoutes(api huma.API, svc TaskService) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-task",
		Method:        http.MethodPost,
		Path:          "/tasks",
		Summary:       "Create a new task",
		Tags:          []string{"Tasks"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *CreateTaskInput) (*TaskOutput, error) {
		t, err := svc.Create(ctx, input.Body.Title, input.Body.Description)
		if err != nil {
			return nil, serviceError(err, "failed to create task")
		}

		return &TaskOutput{Body: newTaskResponse(t)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-tasks",
		Method:      http.MethodGet,
		Path:        "/tasks",
		Summary:     "List tasks",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *ListTasksInput) (*ListTasksOutput, error) {
		var status domain.TaskStatus
		if input.Status != "" {
			parsed, err := domain.ParseStatus(input.Status)
			if err != nil {
				return nil, huma.Error400BadRequest(err.Error())
			}
			status = parsed
		}

		var (
			tasks []domain.Task
			err   error
		)
		switch {
		case input.Query != "":
			tasks, err = svc.Search(ctx, input.Query)
			if status != "" {
				tasks = slices.DeleteFunc(tasks, func(t domain.Task) bool { return t.Status != status })
			}
		case status != "":
			tasks, err = svc.ListByStatus(ctx, status)
		default:
			tasks, err = svc.List(ctx)
		}
		if err != nil {
			return nil, serviceError(err, "failed to list tasks")
		}

		return &ListTasksOutput{Body: newTaskResponses(tasks)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-task",
		Method:      http.MethodGet,
		Path:        "/tasks/{id}",
		Summary:     "Get a task by ID",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *TaskIDInput) (*TaskOutput, error) {
		t, ok, err := svc.Get(ctx, input.ID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to get task", err)
		}
		if !ok {
			return nil, huma.Error404NotFound("task not found")
		}

		return &TaskOutput{Body: newTaskResponse(t)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-task-status",
		Method:      http.MethodPatch,
		Path:        "/tasks/{id}/status",
		Summary:     "Change the status of a task",
		Description: "Responds 204 without a body when a blocked task may not move to the requested status.",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *UpdateTaskStatusInput) (*UpdateTaskStatusOutput, error) {
		status, err := domain.ParseStatus(input.Body.Status)
		if err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}

		t, err := svc.UpdateStatus(ctx, input.ID, status)
		if errors.Is(err, domain.ErrStatusTransitionUnavailable) {
			return &UpdateTaskStatusOutput{Status: http.StatusNoContent}, nil
		}
		if err != nil {
			return nil, serviceError(err, "failed to update task status")
		}

		resp := newTaskResponse(t)
		return &UpdateTaskStatusOutput{Status: http.StatusOK, Body: &resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-task",
		Method:        http.MethodDelete,
		Path:          "/tasks/{id}",
		Summary:       "Delete a task",
		Tags:          []string{"Tasks"},
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *TaskIDInput) (*struct{}, error) {
		if err := svc.Delete(ctx, input.ID); err != nil {
			return nil, huma.Error500InternalServerError("failed to delete task", err)
		}

		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-task-priority",
		Method:      http.MethodGet,
		Path:        "/tasks/{id}/priority",
		Summary:     "Get the priority derived from a task's status",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *TaskIDInput) (*PriorityOutput, error) {
		p, err := svc.Priority(ctx, input.ID)
		if err != nil {
			return nil, serviceError(err, "failed to get task priority")
		}

		return &PriorityOutput{Body: newPriorityResponse(p)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-task-summary",
		Method:      http.MethodGet,
		Path:        "/tasks/{id}/summary",
		Summary:     "Get a one-line summary of a task",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *TaskIDInput) (*TextOutput, error) {
		summary, err := svc.Summary(ctx, input.ID)
		if err != nil {
			return nil, serviceError(err, "failed to summarize task")
		}

		return newTextOutput(summary), nil
	})
}
