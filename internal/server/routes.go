package server

import (
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	v1 "github.com/gosuda/taskmgr/internal/api/v1"
	"github.com/gosuda/taskmgr/internal/api/ws"
	"github.com/gosuda/taskmgr/internal/task"
)

func registerAPIRoutes(api huma.API, tasks *task.Service, streamDelay time.Duration) {
	v1.RegisterTaskRoutes(api, tasks)
	v1.RegisterQueryRoutes(api, tasks)
	v1.RegisterStreamRoutes(api, tasks, streamDelay)
}

func registerWSRoutes(r chi.Router, hub *ws.Hub) {
	r.Get("/tasks", hub.ServeTasks)
	r.Get("/tasks/{id}", hub.ServeTask)
}
