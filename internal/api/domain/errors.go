package domain

import (
	"errors"
	"fmt"
)

// Error codes returned to clients. Stable across releases; clients dispatch
// on Code, not on the message text.
const (
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeInvalidData  = "INVALID_DATA"
	CodeInvalidState = "INVALID_STATE"
	CodeUnavailable  = "UNAVAILABLE"
)

// Error is a domain-level failure with a stable code.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound reports a referenced entity that does not exist.
func NotFound(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflict reports an invariant violation: duplicate application, duplicate
// pending settlement, or an already-processed state transition.
func Conflict(format string, args ...any) *Error {
	return &Error{Code: CodeConflict, Message: fmt.Sprintf(format, args...)}
}

// InvalidData reports malformed input such as a non-positive wage.
func InvalidData(format string, args ...any) *Error {
	return &Error{Code: CodeInvalidData, Message: fmt.Sprintf(format, args...)}
}

// InvalidState reports an operation attempted outside its eligibility window.
func InvalidState(format string, args ...any) *Error {
	return &Error{Code: CodeInvalidState, Message: fmt.Sprintf(format, args...)}
}

// Unavailable wraps a storage or transport failure. Callers may retry.
func Unavailable(message string, err error) *Error {
	return &Error{Code: CodeUnavailable, Message: message, Err: err}
}

// CodeOf extracts the domain code from err, or CodeUnavailable when err is
// not a domain error.
func CodeOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeUnavailable
}

// IsCode reports whether err carries the given domain code.
func IsCode(err error, code string) bool {
	return CodeOf(err) == code
}
