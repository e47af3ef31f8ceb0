package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/gosuda/taskmgr/internal/api/v1"
	"github.com/gosuda/taskmgr/internal/config"
	"github.com/gosuda/taskmgr/internal/domain"
	"github.com/gosuda/taskmgr/internal/notify"
	"github.com/gosuda/taskmgr/internal/server"
	"github.com/gosuda/taskmgr/internal/store/memory"
	"github.com/gosuda/taskmgr/internal/task"
)

func testConfig() *config.Config {
	return &config.Config{
		Store: config.StoreMemory,
		Server: config.ServerConfig{
			Addr:           ":0",
			ReadTimeout:    time.Second,
			CORSOrigins:    []string{"https://app.example.com"},
			RateLimitRPS:   1000,
			RateLimitBurst: 1000,
		},
		Tasks: config.TasksConfig{BlockedGuard: true},
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	ts, _ := newTestServerWithEvents(t)
	return ts
}

func newTestServerWithEvents(t *testing.T) (*httptest.Server, chan domain.Event) {
	t.Helper()

	events := make(chan domain.Event, 16)
	dispatcher := notify.NewDispatcher(notify.DefaultBreakerConfig())
	dispatcher.Register("test", notify.NewChannelSink(events, zerolog.Nop()))

	svc := task.NewService(memory.NewTaskRepo(), dispatcher, task.Options{BlockedGuard: true})
	srv := server.New(t.Context(), testConfig(), svc, nil)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, events
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), method, url, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestServer_Healthz(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)

	resp := do(t, http.MethodGet, ts.URL+"/healthz", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestServer_TaskLifecycle(t *testing.T) {
	t.Parallel()

	ts, events := newTestServerWithEvents(t)
	base := ts.URL + "/api/v1"

	resp := do(t, http.MethodPost, base+"/tasks", `{"title":"Buy milk","description":"2% milk"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created v1.TaskResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, "PENDING", created.Status)

	resp = do(t, http.MethodPatch, base+"/tasks/"+created.ID.String()+"/status", `{"status":"BLOCKED"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodPatch, base+"/tasks/"+created.ID.String()+"/status", `{"status":"COMPLETED"}`)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodGet, base+"/tasks/"+created.ID.String()+"/priority", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var p v1.PriorityResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&p))
	assert.Equal(t, v1.PriorityResponse{Value: 3, Label: "High"}, p)

	resp = do(t, http.MethodGet, base+"/tasks/statistics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats task.Statistics
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.Equal(t, task.Statistics{Total: 1, Blocked: 1}, stats)

	resp = do(t, http.MethodDelete, base+"/tasks/"+created.ID.String(), "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodGet, base+"/tasks/"+created.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	close(events)
	var types []domain.EventType
	for ev := range events {
		assert.Equal(t, created.ID, ev.TaskID)
		types = append(types, ev.Type)
	}
	assert.Equal(t, []domain.EventType{
		domain.EventTaskCreated,
		domain.EventTaskStatusChanged,
		domain.EventTaskDeleted,
	}, types, "guarded transition emits nothing")
}

func TestServer_CORSPreflight(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodOptions, ts.URL+"/api/v1/tasks", http.NoBody)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "https://app.example.com", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestServer_NoWebSocketWithoutHub(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)

	resp := do(t, http.MethodGet, ts.URL+"/ws/tasks", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
