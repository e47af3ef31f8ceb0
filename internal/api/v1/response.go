package v1

import (
	"errors"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/gosuda/taskmgr/internal/domain"
)

type PriorityResponse struct {
	Value int    `json:"value" doc:"Priority value, 1 (low) to 3 (high)"`
	Label string `json:"label" doc:"Priority label"`
}

// TaskResponse is the wire shape of a task. Priority is derived from the
// status at response time.
type TaskResponse struct {
	ID          uuid.UUID        `json:"id" doc:"Task ID"`
	Title       string           `json:"title" doc:"Task title"`
	Description string           `json:"description" doc:"Task description"`
	Status      string           `json:"status" doc:"Task status"`
	Priority    PriorityResponse `json:"priority" doc:"Priority derived from status"`
	CreatedAt   time.Time        `json:"created_at" doc:"Creation time"`
	UpdatedAt   time.Time        `json:"updated_at" doc:"Last status change"`
}

func newPriorityResponse(p domain.Priority) PriorityResponse {
	return PriorityResponse{Value: p.Value(), Label: p.Label()}
}

func newTaskResponse(t domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    newPriorityResponse(t.Priority()),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func newTaskResponses(tasks []domain.Task) []TaskResponse {
	out := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		out[i] = newTaskResponse(t)
	}
	return out
}

// TextOutput carries a plain-text body.
type TextOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

func newTextOutput(s string) *TextOutput {
	return &TextOutput{ContentType: "text/plain; charset=utf-8", Body: []byte(s)}
}

// serviceError maps service errors onto HTTP errors. Validation failures
// become 400 and unknown tasks 404; anything else is a 500 carrying msg.
func serviceError(err error, msg string) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return huma.Error404NotFound("task not found")
	default:
		return huma.Error500InternalServerError(msg, err)
	}
}
