package handler

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/albaworks/albawork-be/internal/api/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobCursorRoundTrip(t *testing.T) {
	original := &storage.JobCursor{
		CreatedAt: time.Date(2024, 6, 10, 9, 30, 0, 123456789, time.UTC),
		JobID:     "4f9c3a50-1111-4222-8333-abcdefabcdef",
	}

	encoded := EncodeJobCursor(original)
	decoded, err := DecodeJobCursor(encoded)
	require.NoError(t, err)
	require.NotNil(t, decoded)

	assert.Equal(t, original.JobID, decoded.JobID)
	assert.True(t, original.CreatedAt.Equal(decoded.CreatedAt))
}

func TestDecodeJobCursorEmpty(t *testing.T) {
	cursor, err := DecodeJobCursor("")
	require.NoError(t, err)
	assert.Nil(t, cursor)
}

func TestDecodeJobCursorInvalid(t *testing.T) {
	tests := []struct {
		name   string
		cursor string
	}{
		{name: "not base64", cursor: "!!not-base64!!"},
		{name: "missing separator", cursor: base64.StdEncoding.EncodeToString([]byte("12345"))},
		{name: "missing job id", cursor: base64.StdEncoding.EncodeToString([]byte("12345|"))},
		{name: "non-numeric timestamp", cursor: base64.StdEncoding.EncodeToString([]byte("abc|job-1"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeJobCursor(tt.cursor)
			assert.Error(t, err)
		})
	}
}
