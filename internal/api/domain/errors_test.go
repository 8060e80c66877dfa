package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "not found", err: NotFound("job %s", "j1"), want: CodeNotFound},
		{name: "conflict", err: Conflict("already processed"), want: CodeConflict},
		{name: "invalid data", err: InvalidData("wage must be positive"), want: CodeInvalidData},
		{name: "invalid state", err: InvalidState("work not finished"), want: CodeInvalidState},
		{name: "unavailable", err: Unavailable("storage", errors.New("conn refused")), want: CodeUnavailable},
		{name: "wrapped domain error", err: fmt.Errorf("approve: %w", Conflict("done")), want: CodeConflict},
		{name: "plain error", err: errors.New("boom"), want: CodeUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeOf(tt.err))
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := Unavailable("database write failed", cause)

	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "UNAVAILABLE")
	assert.Contains(t, err.Error(), "dial tcp")
	assert.True(t, IsCode(err, CodeUnavailable))
	assert.False(t, IsCode(err, CodeConflict))
}
