package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/taskmgr/internal/domain"
)

// ExchangeName is the topic exchange task events are published to.
const ExchangeName = "taskmgr.events"

// Broker publishes a payload under a routing key.
type Broker interface {
	Publish(ctx context.Context, routingKey string, payload []byte) error
}

// AMQPPublisher holds one connection and channel to a RabbitMQ broker.
type AMQPPublisher struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
}

// DialAMQP connects to url and declares ExchangeName as a durable topic
// exchange.
func DialAMQP(url string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("notify.DialAMQP: connect: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("notify.DialAMQP: open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		ExchangeName, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("notify.DialAMQP: declare exchange: %w", err)
	}

	log.Info().Str("exchange", ExchangeName).Msg("notify: amqp publisher connected")

	return &AMQPPublisher{conn: conn, channel: ch}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.channel.PublishWithContext(ctx,
		ExchangeName,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         payload,
		},
	)
	if err != nil {
		return fmt.Errorf("notify.AMQPPublisher.Publish: %w", err)
	}

	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.channel.Close(); err != nil {
		log.Warn().Err(err).Msg("notify: close amqp channel")
	}
	if err := p.conn.Close(); err != nil {
		return fmt.Errorf("notify.AMQPPublisher.Close: %w", err)
	}
	return nil
}

// AMQPSink publishes events as JSON with the event type as routing key.
type AMQPSink struct {
	broker Broker
}

func NewAMQPSink(broker Broker) *AMQPSink {
	return &AMQPSink{broker: broker}
}

func (s *AMQPSink) Publish(ctx context.Context, ev domain.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("notify.AMQPSink.Publish: marshal: %w", err)
	}
	if err := s.broker.Publish(ctx, string(ev.Type), payload); err != nil {
		return fmt.Errorf("notify.AMQPSink.Publish: %w", err)
	}
	return nil
}
