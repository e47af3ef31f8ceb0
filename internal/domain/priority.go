package domain

import "fmt"

// Priority is the urgency derived from a task's status.
type Priority int

const (
	PriorityLow    Priority = 1
	PriorityMedium Priority = 2
	PriorityHigh   Priority = 3
)

// PriorityFor maps every status to exactly one priority.
//
//	PENDING, COMPLETED -> Low(1)
//	IN_PROGRESS        -> Medium(2)
//	BLOCKED            -> High(3)
func PriorityFor(status TaskStatus) Priority {
	switch status {
	case TaskStatusInProgress:
		return PriorityMedium
	case TaskStatusBlocked:
		return PriorityHigh
	default:
		return PriorityLow
	}
}

// StatusesFor is the inverse of PriorityFor.
func StatusesFor(p Priority) []TaskStatus {
	var out []TaskStatus
	for _, s := range Statuses() {
		if PriorityFor(s) == p {
			out = append(out, s)
		}
	}
	return out
}

// ParsePriorityValue validates a numeric priority.
func ParsePriorityValue(v int) (Priority, error) {
	p := Priority(v)
	if !p.Valid() {
		return 0, fmt.Errorf("%w: priority value must be 1-3, got %d", ErrValidation, v)
	}
	return p, nil
}

func (p Priority) Valid() bool {
	return p >= PriorityLow && p <= PriorityHigh
}

func (p Priority) Value() int { return int(p) }

func (p Priority) Label() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	default:
		return "Unknown"
	}
}

func (p Priority) String() string { return p.Label() }
