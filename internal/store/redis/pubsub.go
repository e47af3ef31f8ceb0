package redis

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// EventsChannel carries every task event.
const EventsChannel = "tasks:events"

// TaskChannel returns the Redis channel name for events of a single task.
func TaskChannel(taskID uuid.UUID) string {
	return "tasks:" + taskID.String()
}

// subscriberBuffer is how many messages a subscriber may lag before
// messages are dropped.
const subscriberBuffer = 64

type Options struct {
	Addr     string
	Password string //nolint:gosec // G117: Redis connection config
	DB       int
}

// PubSub publishes task events and relays them to subscribers.
type PubSub struct {
	client *redis.Client
}

// New connects and pings Redis.
func New(ctx context.Context, opts Options) (*PubSub, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis.New: ping %s: %w", opts.Addr, err)
	}

	return &PubSub{client: client}, nil
}

func (ps *PubSub) Close() error {
	if err := ps.client.Close(); err != nil {
		return fmt.Errorf("redis.PubSub.Close: %w", err)
	}
	return nil
}

// PublishAll sends payload to every channel in one pipelined round trip.
func (ps *PubSub) PublishAll(ctx context.Context, payload []byte, channels ...string) error {
	if len(channels) == 0 {
		return nil
	}

	_, err := ps.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		for _, ch := range channels {
			p.Publish(ctx, ch, payload)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis.PubSub.PublishAll: %w", err)
	}
	return nil
}

// Subscribe relays messages on channel until ctx is done or cleanup is
// called. A subscriber that falls more than subscriberBuffer messages behind
// loses messages rather than stalling the shared connection.
func (ps *PubSub) Subscribe(ctx context.Context, channel string) (<-chan []byte, func(), error) {
	sub := ps.client.Subscribe(ctx, channel)

	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("redis.PubSub.Subscribe %s: %w", channel, err)
	}

	out := make(chan []byte, subscriberBuffer)
	go relay(ctx, channel, sub.Channel(), out)

	return out, func() { _ = sub.Close() }, nil
}

func relay(ctx context.Context, channel string, in <-chan *redis.Message, out chan<- []byte) {
	defer close(out)

	dropped := 0
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-in:
			if !ok {
				return
			}
			select {
			case out <- []byte(msg.Payload):
			default:
				dropped++
				log.Warn().
					Str("channel", channel).
					Int("dropped", dropped).
					Msg("redis: subscriber lagging, message dropped")
			}
		}
	}
}
