package redis_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/taskmgr/internal/domain"
	redisstore "github.com/gosuda/taskmgr/internal/store/redis"
)

func TestTaskChannel(t *testing.T) {
	t.Parallel()

	taskID := uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")

	t.Run("happy path", func(t *testing.T) {
		t.Parallel()

		got := redisstore.TaskChannel(taskID)
		assert.Equal(t, "tasks:aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee", got)
	})

	t.Run("nil UUID", func(t *testing.T) {
		t.Parallel()

		got := redisstore.TaskChannel(uuid.Nil)
		assert.Equal(t, "tasks:00000000-0000-0000-0000-000000000000", got)
	})

	t.Run("prefix shared with events channel", func(t *testing.T) {
		t.Parallel()

		got := redisstore.TaskChannel(taskID)
		assert.True(t, strings.HasPrefix(got, "tasks:"), "expected prefix 'tasks:', got %q", got)
		assert.NotEqual(t, redisstore.EventsChannel, got)
	})

	t.Run("different inputs produce different outputs", func(t *testing.T) {
		t.Parallel()

		other := uuid.MustParse("11111111-2222-3333-4444-555555555555")
		assert.NotEqual(t, redisstore.TaskChannel(taskID), redisstore.TaskChannel(other))
	})
}

type published struct {
	channel string
	payload []byte
}

type fakePublisher struct {
	messages []published
	err      error
}

func (f *fakePublisher) PublishAll(_ context.Context, payload []byte, channels ...string) error {
	if f.err != nil {
		return f.err
	}
	for _, ch := range channels {
		f.messages = append(f.messages, published{channel: ch, payload: payload})
	}
	return nil
}

func TestEventSink_Publish(t *testing.T) {
	t.Parallel()

	t.Run("publishes to both channels", func(t *testing.T) {
		t.Parallel()

		pub := &fakePublisher{}
		sink := redisstore.NewEventSink(pub)

		taskID := uuid.New()
		ev := domain.Event{
			Type:       domain.EventTaskCompleted,
			TaskID:     taskID,
			OccurredAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		}
		require.NoError(t, sink.Publish(context.Background(), ev))

		require.Len(t, pub.messages, 2)
		assert.Equal(t, redisstore.EventsChannel, pub.messages[0].channel)
		assert.Equal(t, redisstore.TaskChannel(taskID), pub.messages[1].channel)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(pub.messages[0].payload, &decoded))
		assert.Equal(t, "task.completed", decoded["type"])
		assert.Equal(t, taskID.String(), decoded["task_id"])
		assert.NotContains(t, decoded, "task")
	})

	t.Run("publisher error is wrapped", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("connection refused")
		sink := redisstore.NewEventSink(&fakePublisher{err: boom})

		err := sink.Publish(context.Background(), domain.Event{Type: domain.EventTaskDeleted, TaskID: uuid.New()})
		require.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "redis.EventSink.Publish")
	})
}

// TestPubSub_RoundTrip needs a live server: TASKMGR_TEST_REDIS=localhost:6379.
func TestPubSub_RoundTrip(t *testing.T) {
	addr := os.Getenv("TASKMGR_TEST_REDIS")
	if addr == "" {
		t.Skip("TASKMGR_TEST_REDIS not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ps, err := redisstore.New(ctx, redisstore.Options{Addr: addr})
	require.NoError(t, err)
	defer ps.Close()

	taskID := uuid.New()
	all, cleanupAll, err := ps.Subscribe(ctx, redisstore.EventsChannel)
	require.NoError(t, err)
	defer cleanupAll()
	one, cleanupOne, err := ps.Subscribe(ctx, redisstore.TaskChannel(taskID))
	require.NoError(t, err)
	defer cleanupOne()

	sink := redisstore.NewEventSink(ps)
	require.NoError(t, sink.Publish(ctx, domain.Event{Type: domain.EventTaskCreated, TaskID: taskID}))

	for _, ch := range []<-chan []byte{all, one} {
		select {
		case msg := <-ch:
			var ev domain.Event
			require.NoError(t, json.Unmarshal(msg, &ev))
			assert.Equal(t, taskID, ev.TaskID)
		case <-ctx.Done():
			t.Fatal("timed out waiting for event")
		}
	}
}
