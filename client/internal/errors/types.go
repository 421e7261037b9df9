// Package errors classifies transport failures of the portal client so the
// shard executor knows which ones are worth another attempt.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory determines how errors are handled by retry logic.
type ErrorCategory int

const (
	// Recoverable errors may succeed on a later attempt: 5xx, 408, 429 and
	// network failures.
	Recoverable ErrorCategory = iota

	// Irrecoverable errors fail immediately: other 4xx and backend
	// rejections carried in a success:false envelope.
	Irrecoverable
)

func (c ErrorCategory) String() string {
	switch c {
	case Recoverable:
		return "Recoverable"
	case Irrecoverable:
		return "Irrecoverable"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// ClassifiedError wraps a backend or network failure with retry metadata.
type ClassifiedError struct {
	Category   ErrorCategory
	StatusCode int    // 0 for network errors
	Message    string // envelope message, if the backend sent one
	Body       string // raw response body for debugging
	Underlying error
}

func (e *ClassifiedError) Error() string {
	msg := fmt.Sprintf("[%s] %v", e.Category, e.Underlying)
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("[%s] HTTP %d: %v", e.Category, e.StatusCode, e.Underlying)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

func (e *ClassifiedError) Unwrap() error { return e.Underlying }

// IsIrrecoverable reports whether err carries an Irrecoverable classification
// anywhere in its chain.
func IsIrrecoverable(err error) bool {
	var ce *ClassifiedError
	return errors.As(err, &ce) && ce.Category == Irrecoverable
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.StatusCode
	}
	return 0
}
