package storage

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testChatRoomID = "4a7c9e12-0000-4000-8000-000000000020"

func TestAddParticipantAddsNewUser(t *testing.T) {
	store, mock := newTestStorage(t)

	mock.ExpectExec("UPDATE chat_rooms").
		WithArgs(testChatRoomID, testWorkerID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	added, err := store.AddParticipant(context.Background(), testChatRoomID, testWorkerID)
	require.NoError(t, err)
	assert.True(t, added)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// The guard clause skips the update when the user is already in the
// participant array: zero rows affected, added=false, no error.
func TestAddParticipantIsIdempotent(t *testing.T) {
	store, mock := newTestStorage(t)

	mock.ExpectExec("UPDATE chat_rooms").
		WithArgs(testChatRoomID, testWorkerID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	added, err := store.AddParticipant(context.Background(), testChatRoomID, testWorkerID)
	require.NoError(t, err)
	assert.False(t, added)

	assert.NoError(t, mock.ExpectationsWereMet())
}
