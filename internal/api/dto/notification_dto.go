package dto

type NotificationDTO struct {
	NotificationID string `json:"notification_id"`
	Kind           string `json:"kind"`
	Title          string `json:"title"`
	Message        string `json:"message"`
	Read           bool   `json:"read"`
	CreatedAt      string `json:"created_at"`
}

type ListNotificationsResponse struct {
	Notifications []NotificationDTO `json:"notifications"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
