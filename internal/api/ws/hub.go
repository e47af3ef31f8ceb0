// Package ws relays task events to WebSocket clients.
package ws

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gosuda/taskmgr/internal/domain"
	redisstore "github.com/gosuda/taskmgr/internal/store/redis"
)

// Subscriber delivers raw messages published on a channel until cleanup
// is called or ctx is done. *redisstore.PubSub satisfies this interface.
type Subscriber interface {
	Subscribe(ctx context.Context, channel string) (<-chan []byte, func(), error)
}

// Hub manages WebSocket connections backed by pub/sub.
type Hub struct {
	sub Subscriber
}

// NewHub creates a new WebSocket hub.
func NewHub(sub Subscriber) *Hub {
	return &Hub{sub: sub}
}

// ServeTasks streams every task event. Repeated ?type= parameters restrict
// the stream to those event types.
func (h *Hub) ServeTasks(w http.ResponseWriter, r *http.Request) {
	types := make(map[domain.EventType]bool)
	for _, t := range r.URL.Query()["type"] {
		types[domain.EventType(t)] = true
	}

	var keep func([]byte) bool
	if len(types) > 0 {
		keep = func(msg []byte) bool {
			var ev struct {
				Type domain.EventType `json:"type"`
			}
			if err := json.Unmarshal(msg, &ev); err != nil {
				return false
			}
			return types[ev.Type]
		}
	}

	h.relay(w, r, redisstore.EventsChannel, keep)
}

// ServeTask streams the events of the task named by the {id} URL parameter.
func (h *Hub) ServeTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid task id", http.StatusBadRequest)
		return
	}

	h.relay(w, r, redisstore.TaskChannel(taskID), nil)
}

// relay copies messages from channel to the client. A nil keep forwards
// everything.
func (h *Hub) relay(w http.ResponseWriter, r *http.Request, channel string, keep func([]byte) bool) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket accept")
		return
	}
	defer conn.CloseNow()

	ctx := conn.CloseRead(r.Context())

	messages, cleanup, err := h.sub.Subscribe(ctx, channel)
	if err != nil {
		log.Error().Err(err).Str("channel", channel).Msg("websocket subscribe")
		_ = conn.Close(websocket.StatusInternalError, "subscribe failed")
		return
	}
	defer cleanup()

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "connection closed")
			return
		case msg, msgOK := <-messages:
			if !msgOK {
				_ = conn.Close(websocket.StatusNormalClosure, "channel closed")
				return
			}
			if keep != nil && !keep(msg) {
				continue
			}
			if writeErr := conn.Write(ctx, websocket.MessageText, msg); writeErr != nil {
				log.Debug().Err(writeErr).Msg("websocket write")
				return
			}
		}
	}
}
