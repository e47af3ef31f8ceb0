package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gosuda/taskmgr/internal/domain"
)

// Publisher is the publishing half of PubSub.
type Publisher interface {
	PublishAll(ctx context.Context, payload []byte, channels ...string) error
}

// EventSink publishes task events as JSON to EventsChannel and to the
// task's own channel.
type EventSink struct {
	pub Publisher
}

func NewEventSink(pub Publisher) *EventSink {
	return &EventSink{pub: pub}
}

func (s *EventSink) Publish(ctx context.Context, ev domain.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("redis.EventSink.Publish: marshal: %w", err)
	}

	if err := s.pub.PublishAll(ctx, payload, EventsChannel, TaskChannel(ev.TaskID)); err != nil {
		return fmt.Errorf("redis.EventSink.Publish: %w", err)
	}
	return nil
}
