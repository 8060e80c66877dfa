package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/albaworks/albawork-be/internal/api/domain"
	"github.com/albaworks/albawork-be/internal/api/model"
)

const chatRoomColumns = `
	room_id, name, room_type, job_id, participants, created_at
`

const chatMessageColumns = `
	message_id, room_id, sender_id, sender_name, body, is_system, read_by, created_at
`

func (s *Storage) CreateChatRoom(ctx context.Context, room *model.ChatRoom) error {
	query := `
		INSERT INTO chat_rooms (
			room_id, name, room_type, job_id, participants, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
	`

	_, err := s.db.ExecContext(ctx, query,
		room.RoomID,
		room.Name,
		room.RoomType,
		room.JobID,
		room.Participants,
		room.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("notice room for job %s already exists", room.JobID.String)
		}
		return fmt.Errorf("failed to create chat room: %w", err)
	}

	return nil
}

func (s *Storage) GetChatRoom(ctx context.Context, roomID string) (*model.ChatRoom, error) {
	query := `SELECT ` + chatRoomColumns + ` FROM chat_rooms WHERE room_id = $1`

	var room model.ChatRoom
	err := s.getContext(ctx, &room, query, roomID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("chat room %s not found", roomID)
		}
		return nil, fmt.Errorf("failed to get chat room: %w", err)
	}

	return &room, nil
}

// ListChatRoomsForUser returns every room whose participant set contains the
// user, newest first.
func (s *Storage) ListChatRoomsForUser(ctx context.Context, userID string) ([]model.ChatRoom, error) {
	query := `
		SELECT ` + chatRoomColumns + `
		FROM chat_rooms
		WHERE $1 = ANY(participants)
		ORDER BY created_at DESC
	`

	var rooms []model.ChatRoom
	err := s.selectContext(ctx, &rooms, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat rooms: %w", err)
	}

	return rooms, nil
}

// FindNoticeRoomByJob locates the notice room tied to a job posting. A
// missing room is reported with found=false, not an error, because the
// approval engine treats it as a non-fatal condition.
func (s *Storage) FindNoticeRoomByJob(ctx context.Context, jobID string) (*model.ChatRoom, bool, error) {
	query := `SELECT ` + chatRoomColumns + ` FROM chat_rooms WHERE job_id = $1 AND room_type = $2`

	var room model.ChatRoom
	err := s.getContext(ctx, &room, query, jobID, domain.RoomTypeNotice)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to find notice room: %w", err)
	}

	return &room, true, nil
}

// AddParticipant unions the user into the room's participant set. The guard
// clause makes the operation idempotent: a user already present leaves the
// array unchanged and added=false.
func (s *Storage) AddParticipant(ctx context.Context, roomID, userID string) (bool, error) {
	query := `
		UPDATE chat_rooms
		SET participants = array_append(participants, $2)
		WHERE room_id = $1
		  AND NOT ($2 = ANY(participants))
	`

	result, err := s.db.ExecContext(ctx, query, roomID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to add participant: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows > 0, nil
}

func (s *Storage) InsertChatMessage(ctx context.Context, msg *model.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (
			message_id, room_id, sender_id, sender_name, body, is_system, read_by, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
	`

	_, err := s.db.ExecContext(ctx, query,
		msg.MessageID,
		msg.RoomID,
		msg.SenderID,
		msg.SenderName,
		msg.Body,
		msg.IsSystem,
		msg.ReadBy,
		msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert chat message: %w", err)
	}

	return nil
}

func (s *Storage) ListChatMessages(ctx context.Context, roomID string, limit int) ([]model.ChatMessage, error) {
	query := `
		SELECT ` + chatMessageColumns + `
		FROM chat_messages
		WHERE room_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	var messages []model.ChatMessage
	err := s.selectContext(ctx, &messages, query, roomID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}

	return messages, nil
}

// CountUnread counts messages unread by the user over a bounded recent
// window: a message counts when it was sent by someone else and the user is
// absent from its read_by set.
func (s *Storage) CountUnread(ctx context.Context, roomID, userID string, window int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM (
			SELECT sender_id, read_by
			FROM chat_messages
			WHERE room_id = $1
			ORDER BY created_at DESC
			LIMIT $3
		) recent
		WHERE recent.sender_id <> $2
		  AND NOT ($2 = ANY(recent.read_by))
	`

	var count int
	err := s.getContext(ctx, &count, query, roomID, userID, window)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}

	return count, nil
}

// MarkMessagesRead unions the user into read_by for every message in the
// room they have not read yet.
func (s *Storage) MarkMessagesRead(ctx context.Context, roomID, userID string) error {
	query := `
		UPDATE chat_messages
		SET read_by = array_append(read_by, $2)
		WHERE room_id = $1
		  AND sender_id <> $2
		  AND NOT ($2 = ANY(read_by))
	`

	_, err := s.db.ExecContext(ctx, query, roomID, userID)
	if err != nil {
		return fmt.Errorf("failed to mark messages read: %w", err)
	}

	return nil
}
