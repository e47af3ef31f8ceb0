package domain

import "errors"

// Sentinel errors for the domain layer.
var (
	ErrValidation                  = errors.New("domain: validation failed")
	ErrNotFound                    = errors.New("domain: not found")
	ErrStatusTransitionUnavailable = errors.New("domain: status transition unavailable")
)
