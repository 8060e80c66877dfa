package handler

import (
	"database/sql"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/albaworks/albawork-be/internal/api/domain"
	"github.com/albaworks/albawork-be/internal/api/dto"
	"github.com/albaworks/albawork-be/internal/api/model"
	"github.com/albaworks/albawork-be/internal/api/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// unreadWindow bounds how far back unread counting scans per room.
const unreadWindow = 100

const defaultMessageLimit = 50

// ChatHandler handles chat room and message HTTP requests
type ChatHandler struct {
	logger *slog.Logger
	store  *storage.Storage
}

func NewChatHandler(deps *Dependencies) *ChatHandler {
	return &ChatHandler{
		logger: deps.Logger,
		store:  deps.Store,
	}
}

// CreateRoom handles POST /api/v1/chat/rooms (admin only)
func (h *ChatHandler) CreateRoom(c *gin.Context) {
	var req dto.CreateChatRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "invalid request body")
		return
	}

	switch req.RoomType {
	case domain.RoomTypeAdmin, domain.RoomTypeNotice, domain.RoomTypeGroup:
	default:
		writeBadRequest(c, "room_type must be admin, notice, or group")
		return
	}

	var jobID sql.NullString
	if req.RoomType == domain.RoomTypeNotice {
		if _, err := uuid.Parse(req.JobID); err != nil {
			writeBadRequest(c, "notice rooms require a valid job_id")
			return
		}
		if _, err := h.store.GetJobPosting(c.Request.Context(), req.JobID); err != nil {
			writeError(c, h.logger, err)
			return
		}
		jobID = sql.NullString{String: req.JobID, Valid: true}
	}

	creatorID := c.GetString(ContextUserID)
	participants := req.Participants
	if !slices.Contains(participants, creatorID) {
		participants = append(participants, creatorID)
	}

	room := &model.ChatRoom{
		RoomID:       uuid.New().String(),
		Name:         req.Name,
		RoomType:     req.RoomType,
		JobID:        jobID,
		Participants: participants,
		CreatedAt:    time.Now(),
	}

	if err := h.store.CreateChatRoom(c.Request.Context(), room); err != nil {
		writeError(c, h.logger, err)
		return
	}

	h.logger.Info("chat room created",
		slog.String("room_id", room.RoomID),
		slog.String("room_type", room.RoomType),
	)
	c.JSON(http.StatusCreated, roomToDTO(room, 0))
}

// ListRooms handles GET /api/v1/chat/rooms
// Returns the caller's rooms with per-room unread counts.
func (h *ChatHandler) ListRooms(c *gin.Context) {
	userID := c.GetString(ContextUserID)

	rooms, err := h.store.ListChatRoomsForUser(c.Request.Context(), userID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	out := make([]dto.ChatRoomDTO, len(rooms))
	for i := range rooms {
		unread, err := h.store.CountUnread(c.Request.Context(), rooms[i].RoomID, userID, unreadWindow)
		if err != nil {
			writeError(c, h.logger, err)
			return
		}
		out[i] = *roomToDTO(&rooms[i], unread)
	}
	c.JSON(http.StatusOK, gin.H{"rooms": out})
}

// SendMessage handles POST /api/v1/chat/rooms/:room_id/messages
// Only participants may post; notice rooms accept admin messages only.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	roomID := c.Param("room_id")
	if _, err := uuid.Parse(roomID); err != nil {
		writeBadRequest(c, "room_id must be a valid UUID")
		return
	}

	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "invalid request body")
		return
	}

	room, err := h.store.GetChatRoom(c.Request.Context(), roomID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	userID := c.GetString(ContextUserID)
	role := c.GetString(ContextRole)
	if !slices.Contains(room.Participants, userID) && role != domain.RoleAdmin {
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: "not a participant of this room"})
		return
	}
	if room.RoomType == domain.RoomTypeNotice && role != domain.RoleAdmin {
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: "only administrators can post in notice rooms"})
		return
	}

	msg := &model.ChatMessage{
		MessageID:  uuid.New().String(),
		RoomID:     roomID,
		SenderID:   userID,
		SenderName: c.GetString(ContextUserEmail),
		Body:       req.Body,
		ReadBy:     []string{userID},
		CreatedAt:  time.Now(),
	}

	if err := h.store.InsertChatMessage(c.Request.Context(), msg); err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, messageToDTO(msg))
}

// ListMessages handles GET /api/v1/chat/rooms/:room_id/messages
// Reading a room also marks its messages read for the caller.
func (h *ChatHandler) ListMessages(c *gin.Context) {
	roomID := c.Param("room_id")
	if _, err := uuid.Parse(roomID); err != nil {
		writeBadRequest(c, "room_id must be a valid UUID")
		return
	}

	var req dto.ListMessagesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		writeBadRequest(c, "invalid query parameters")
		return
	}
	if req.Limit <= 0 || req.Limit > 200 {
		req.Limit = defaultMessageLimit
	}

	room, err := h.store.GetChatRoom(c.Request.Context(), roomID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	userID := c.GetString(ContextUserID)
	if !slices.Contains(room.Participants, userID) && c.GetString(ContextRole) != domain.RoleAdmin {
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: "not a participant of this room"})
		return
	}

	messages, err := h.store.ListChatMessages(c.Request.Context(), roomID, req.Limit)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	if err := h.store.MarkMessagesRead(c.Request.Context(), roomID, userID); err != nil {
		// Reads still succeed when the read marker cannot be stored.
		h.logger.Warn("failed to mark messages read",
			slog.String("room_id", roomID),
			slog.String("error", err.Error()),
		)
	}

	out := make([]dto.ChatMessageDTO, len(messages))
	for i := range messages {
		out[i] = *messageToDTO(&messages[i])
	}
	c.JSON(http.StatusOK, dto.ListMessagesResponse{Messages: out})
}

func roomToDTO(room *model.ChatRoom, unread int) *dto.ChatRoomDTO {
	return &dto.ChatRoomDTO{
		RoomID:       room.RoomID,
		Name:         room.Name,
		RoomType:     room.RoomType,
		JobID:        room.JobID.String,
		Participants: room.Participants,
		CreatedAt:    room.CreatedAt.Format(time.RFC3339),
		UnreadCount:  unread,
	}
}

func messageToDTO(msg *model.ChatMessage) *dto.ChatMessageDTO {
	return &dto.ChatMessageDTO{
		MessageID:  msg.MessageID,
		RoomID:     msg.RoomID,
		SenderID:   msg.SenderID,
		SenderName: msg.SenderName,
		Body:       msg.Body,
		IsSystem:   msg.IsSystem,
		CreatedAt:  msg.CreatedAt.Format(time.RFC3339),
	}
}
