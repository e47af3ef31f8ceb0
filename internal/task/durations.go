package task

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gosuda/taskmgr/internal/domain"
)

// DurationClass buckets how long a task took or is expected to take.
type DurationClass string

const (
	DurationQuick  DurationClass = "quick"  // under one hour
	DurationMedium DurationClass = "medium" // under eight hours
	DurationLong   DurationClass = "long"
)

// ClassifyDuration returns the class of d. Bounds are compared in whole
// hours, so 59m59s is quick and 7h59m is medium.
func ClassifyDuration(d time.Duration) DurationClass {
	switch hours := int64(d / time.Hour); {
	case hours < 1:
		return DurationQuick
	case hours < 8:
		return DurationMedium
	default:
		return DurationLong
	}
}

func (c DurationClass) label() string {
	switch c {
	case DurationQuick:
		return "Quick task"
	case DurationMedium:
		return "Medium task"
	default:
		return "Long task"
	}
}

// TaskDuration pairs a task id with a duration to classify. The id is not
// looked up in the store.
type TaskDuration struct {
	ID       uuid.UUID
	Duration time.Duration
}

type DurationAnalysis struct {
	ID      uuid.UUID     `json:"id"`
	Class   DurationClass `json:"class"`
	Summary string        `json:"summary"`
}

// AnalyzeDurations classifies each entry, preserving input order. A
// negative duration fails the whole batch with domain.ErrValidation.
func (s *Service) AnalyzeDurations(durations []TaskDuration) ([]DurationAnalysis, error) {
	out := make([]DurationAnalysis, 0, len(durations))
	for _, td := range durations {
		if td.Duration < 0 {
			return nil, fmt.Errorf("task.AnalyzeDurations: %w: task %s has negative duration %s",
				domain.ErrValidation, td.ID, td.Duration)
		}

		class := ClassifyDuration(td.Duration)
		out = append(out, DurationAnalysis{
			ID:      td.ID,
			Class:   class,
			Summary: "Task " + td.ID.String() + ": " + class.label(),
		})
	}
	return out, nil
}
