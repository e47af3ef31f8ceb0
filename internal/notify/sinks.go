package notify

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/gosuda/taskmgr/internal/domain"
)

// LogSink writes each event to a zerolog logger.
type LogSink struct {
	logger zerolog.Logger
}

func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Publish(_ context.Context, ev domain.Event) error {
	e := s.logger.Info().
		Str("event", string(ev.Type)).
		Str("task_id", ev.TaskID.String()).
		Time("occurred_at", ev.OccurredAt)
	if ev.Task != nil {
		e = e.Str("status", string(ev.Task.Status))
	}
	e.Msg("task event")
	return nil
}

// ChannelSink hands events to a Go channel without blocking. Events are
// dropped while the channel is full.
type ChannelSink struct {
	ch     chan<- domain.Event
	logger zerolog.Logger
}

func NewChannelSink(ch chan<- domain.Event, logger zerolog.Logger) *ChannelSink {
	return &ChannelSink{ch: ch, logger: logger}
}

func (s *ChannelSink) Publish(_ context.Context, ev domain.Event) error {
	select {
	case s.ch <- ev:
	default:
		s.logger.Warn().
			Str("event", string(ev.Type)).
			Str("task_id", ev.TaskID.String()).
			Msg("notify: channel full, event dropped")
	}
	return nil
}
