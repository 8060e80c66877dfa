package model

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type User struct {
	UserID    string    `db:"user_id"`
	Email     string    `db:"email"`
	Name      string    `db:"name"`
	Role      string    `db:"role"`
	CreatedAt time.Time `db:"created_at"`
}

type JobPosting struct {
	JobID        string         `db:"job_id"`
	Title        string         `db:"title"`
	Location     string         `db:"location"`
	Wage         int64          `db:"wage"`
	StartDate    time.Time      `db:"start_date"`
	EndDate      time.Time      `db:"end_date"`
	WorkDays     pq.StringArray `db:"work_days"`
	WorkHours    string         `db:"work_hours"`
	RecruitCount int            `db:"recruit_count"`
	Visibility   string         `db:"visibility"`
	VisibleTo    pq.StringArray `db:"visible_to"`
	CreatedBy    string         `db:"created_by"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

type Application struct {
	ApplicationID string        `db:"application_id"`
	UserID        string        `db:"user_id"`
	UserEmail     string        `db:"user_email"`
	JobID         string        `db:"job_id"`
	JobTitle      string        `db:"job_title"`
	Wage          int64         `db:"wage"`
	StartDate     time.Time     `db:"start_date"`
	EndDate       time.Time     `db:"end_date"`
	Status        string        `db:"status"`
	AppliedAt     time.Time     `db:"applied_at"`
	ApprovedAt    sql.NullTime  `db:"approved_at"`
	TotalWage     sql.NullInt64 `db:"total_wage"`
}

type Schedule struct {
	ScheduleID string    `db:"schedule_id"`
	UserID     string    `db:"user_id"`
	UserEmail  string    `db:"user_email"`
	JobID      string    `db:"job_id"`
	Title      string    `db:"title"`
	Location   string    `db:"location"`
	TotalWage  int64     `db:"total_wage"`
	StartDate  time.Time `db:"start_date"`
	EndDate    time.Time `db:"end_date"`
	CreatedAt  time.Time `db:"created_at"`
}

type Settlement struct {
	SettlementID string       `db:"settlement_id"`
	UserID       string       `db:"user_id"`
	TotalWage    int64        `db:"total_wage"`
	Status       string       `db:"status"`
	RequestedAt  time.Time    `db:"requested_at"`
	ApprovedAt   sql.NullTime `db:"approved_at"`
}

type ChatRoom struct {
	RoomID       string         `db:"room_id"`
	Name         string         `db:"name"`
	RoomType     string         `db:"room_type"`
	JobID        sql.NullString `db:"job_id"`
	Participants pq.StringArray `db:"participants"`
	CreatedAt    time.Time      `db:"created_at"`
}

type ChatMessage struct {
	MessageID  string         `db:"message_id"`
	RoomID     string         `db:"room_id"`
	SenderID   string         `db:"sender_id"`
	SenderName string         `db:"sender_name"`
	Body       string         `db:"body"`
	IsSystem   bool           `db:"is_system"`
	ReadBy     pq.StringArray `db:"read_by"`
	CreatedAt  time.Time      `db:"created_at"`
}

// Notification covers both kinds: personal rows carry a user_id and a read
// flag, global rows have a NULL user_id and track readers in read_by.
type Notification struct {
	NotificationID string         `db:"notification_id"`
	Kind           string         `db:"kind"`
	UserID         sql.NullString `db:"user_id"`
	Title          string         `db:"title"`
	Message        string         `db:"message"`
	Read           bool           `db:"read"`
	ReadBy         pq.StringArray `db:"read_by"`
	CreatedAt      time.Time      `db:"created_at"`
}

type OutboxEvent struct {
	EventID     string       `db:"event_id"`
	EventType   string       `db:"event_type"`
	Payload     string       `db:"payload"`
	Status      string       `db:"status"`
	CreatedAt   time.Time    `db:"created_at"`
	PublishedAt sql.NullTime `db:"published_at"`
	DeliveredAt sql.NullTime `db:"delivered_at"`
}
