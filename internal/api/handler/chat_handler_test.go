package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/albaworks/albawork-be/internal/api/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testRoomID   = "7c0e5b21-36da-4f02-9a8e-1b4c7d2e9f01"
	testMemberID = "7c0e5b21-36da-4f02-9a8e-1b4c7d2e9f02"
)

func newChatRouter(deps *Dependencies, userID, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(ContextUserID, userID)
		c.Set(ContextUserEmail, userID+"@albawork.kr")
		c.Set(ContextRole, role)
	})

	h := NewChatHandler(deps)
	r.GET("/chat/rooms", h.ListRooms)
	r.POST("/chat/rooms/:room_id/messages", h.SendMessage)
	return r
}

func chatRoomRows(roomType, participants string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"room_id", "name", "room_type", "job_id", "participants", "created_at",
	}).AddRow(
		testRoomID, "Cafe staff", roomType, nil, participants,
		time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
	)
}

func TestSendMessageParticipant(t *testing.T) {
	deps, mock := newTestHandler(t)
	r := newChatRouter(deps, testMemberID, "user")

	mock.ExpectQuery("FROM chat_rooms WHERE room_id").
		WithArgs(testRoomID).
		WillReturnRows(chatRoomRows("group", "{"+testMemberID+"}"))
	mock.ExpectExec("INSERT INTO chat_messages").
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := performRequest(r, http.MethodPost, "/chat/rooms/"+testRoomID+"/messages", `{"body": "hello"}`)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp dto.ChatMessageDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, testRoomID, resp.RoomID)
	assert.Equal(t, testMemberID, resp.SenderID)
	assert.Equal(t, "hello", resp.Body)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// A non-admin cannot post in a notice room, participant or not.
func TestSendMessageNoticeRoomRequiresAdmin(t *testing.T) {
	deps, mock := newTestHandler(t)
	r := newChatRouter(deps, testMemberID, "user")

	mock.ExpectQuery("FROM chat_rooms WHERE room_id").
		WithArgs(testRoomID).
		WillReturnRows(chatRoomRows("notice", "{"+testMemberID+"}"))

	w := performRequest(r, http.MethodPost, "/chat/rooms/"+testRoomID+"/messages", `{"body": "hello"}`)

	require.Equal(t, http.StatusForbidden, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "FORBIDDEN", resp.Code)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendMessageRequiresMembership(t *testing.T) {
	deps, mock := newTestHandler(t)
	r := newChatRouter(deps, testMemberID, "user")

	mock.ExpectQuery("FROM chat_rooms WHERE room_id").
		WithArgs(testRoomID).
		WillReturnRows(chatRoomRows("group", "{"+testAdminID+"}"))

	w := performRequest(r, http.MethodPost, "/chat/rooms/"+testRoomID+"/messages", `{"body": "hello"}`)

	require.Equal(t, http.StatusForbidden, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "FORBIDDEN", resp.Code)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// Unread counting scans a bounded recent window per room, never the full
// history: the window size is bound as the LIMIT argument.
func TestListRoomsCountsUnreadOverRecentWindow(t *testing.T) {
	deps, mock := newTestHandler(t)
	r := newChatRouter(deps, testMemberID, "user")

	mock.ExpectQuery("FROM chat_rooms").
		WithArgs(testMemberID).
		WillReturnRows(chatRoomRows("group", "{"+testMemberID+"}"))
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(testRoomID, testMemberID, unreadWindow).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	w := performRequest(r, http.MethodGet, "/chat/rooms", "")

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Rooms []dto.ChatRoomDTO `json:"rooms"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Rooms, 1)
	assert.Equal(t, testRoomID, resp.Rooms[0].RoomID)
	assert.Equal(t, 7, resp.Rooms[0].UnreadCount)

	assert.NoError(t, mock.ExpectationsWereMet())
}
