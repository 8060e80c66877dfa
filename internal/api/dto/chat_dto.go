package dto

type CreateChatRoomRequest struct {
	Name         string   `json:"name" binding:"required"`
	RoomType     string   `json:"room_type" binding:"required"`
	JobID        string   `json:"job_id"`
	Participants []string `json:"participants"`
}

type ChatRoomDTO struct {
	RoomID       string   `json:"room_id"`
	Name         string   `json:"name"`
	RoomType     string   `json:"room_type"`
	JobID        string   `json:"job_id,omitempty"`
	Participants []string `json:"participants"`
	CreatedAt    string   `json:"created_at"`
	UnreadCount  int      `json:"unread_count,omitempty"`
}

type SendMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

type ChatMessageDTO struct {
	MessageID  string `json:"message_id"`
	RoomID     string `json:"room_id"`
	SenderID   string `json:"sender_id"`
	SenderName string `json:"sender_name,omitempty"`
	Body       string `json:"body"`
	IsSystem   bool   `json:"is_system,omitempty"`
	CreatedAt  string `json:"created_at"`
}

type ListMessagesRequest struct {
	Limit int `form:"limit"`
}

type ListMessagesResponse struct {
	Messages []ChatMessageDTO `json:"messages"`
}
