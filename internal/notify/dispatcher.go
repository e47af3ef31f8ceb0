// Package notify fans task events out to the configured event sinks.
package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"

	"github.com/gosuda/taskmgr/internal/domain"
)

// ErrSinkUnavailable is returned for a sink whose circuit breaker is open.
var ErrSinkUnavailable = errors.New("notify: sink unavailable") //nolint:gochecknoglobals // sentinel error

// BreakerConfig controls the circuit breaker wrapped around each sink.
type BreakerConfig struct {
	FailureThreshold uint32
	Timeout          time.Duration
}

// DefaultBreakerConfig trips after five consecutive failures and probes
// again after thirty seconds.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{FailureThreshold: 5, Timeout: 30 * time.Second}
}

type registered struct {
	name    string
	sink    domain.EventSink
	breaker *gobreaker.CircuitBreaker[any]
}

// Dispatcher is a domain.EventSink that forwards each event to every
// registered sink in registration order. A failing sink does not stop
// delivery to the others.
type Dispatcher struct {
	mu     sync.RWMutex
	sinks  []*registered
	config BreakerConfig
}

func NewDispatcher(cfg BreakerConfig) *Dispatcher {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = DefaultBreakerConfig().FailureThreshold
	}
	return &Dispatcher{config: cfg}
}

// Register adds a sink under name. Registering a name twice replaces the
// earlier sink and resets its breaker.
func (d *Dispatcher) Register(name string, sink domain.EventSink) {
	settings := gobreaker.Settings{
		Name:    name,
		Timeout: d.config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= d.config.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Info().
				Str("sink", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("notify: circuit breaker state changed")
		},
	}
	r := &registered{
		name:    name,
		sink:    sink,
		breaker: gobreaker.NewCircuitBreaker[any](settings),
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for i, existing := range d.sinks {
		if existing.name == name {
			d.sinks[i] = r
			return
		}
	}
	d.sinks = append(d.sinks, r)
}

// Names returns the registered sink names in delivery order.
func (d *Dispatcher) Names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make([]string, len(d.sinks))
	for i, r := range d.sinks {
		names[i] = r.name
	}
	return names
}

// Publish delivers ev to every sink and joins their errors.
func (d *Dispatcher) Publish(ctx context.Context, ev domain.Event) error {
	d.mu.RLock()
	sinks := make([]*registered, len(d.sinks))
	copy(sinks, d.sinks)
	d.mu.RUnlock()

	var errs []error
	for _, r := range sinks {
		_, err := r.breaker.Execute(func() (any, error) {
			return nil, r.sink.Publish(ctx, ev)
		})
		switch {
		case err == nil:
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			errs = append(errs, fmt.Errorf("notify.Dispatcher.Publish: %s: %w", r.name, ErrSinkUnavailable))
		default:
			errs = append(errs, fmt.Errorf("notify.Dispatcher.Publish: %s: %w", r.name, err))
		}
	}

	return errors.Join(errs...)
}
