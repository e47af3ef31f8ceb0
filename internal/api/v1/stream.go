package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/taskmgr/internal/domain"
)

// RegisterStreamRoutes serves every task as a server-sent "task" event,
// pausing delay before each one.
func RegisterStreamRoutes(api huma.API, q TaskQueries, delay time.Duration) {
	sse.Register(api, huma.Operation{
		OperationID: "stream-tasks",
		Method:      http.MethodGet,
		Path:        "/tasks/stream",
		Summary:     "Stream all tasks as server-sent events",
		Tags:        []string{"Tasks"},
	}, map[string]any{
		"task": TaskResponse{},
	}, func(ctx context.Context, _ *struct{}, send sse.Sender) {
		err := q.Stream(ctx, delay, func(t domain.Task) error {
			return send.Data(newTaskResponse(t))
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Warn().Err(err).Msg("v1: task stream ended early")
		}
	})
}
