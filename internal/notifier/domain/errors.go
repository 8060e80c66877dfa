package domain

import "errors"

var (
	// ErrEventAlreadyDelivered is returned when attempting to claim an event
	// another consumer already delivered
	ErrEventAlreadyDelivered = errors.New("event already delivered")

	// ErrInvalidPayload is returned when the event payload JSON is malformed
	ErrInvalidPayload = errors.New("invalid event payload")
)

// RetryableError wraps transient errors that should trigger a requeue
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string {
	return "retryable error: " + e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// NewRetryableError creates a new retryable error
func NewRetryableError(err error) error {
	return &RetryableError{Err: err}
}
