package dto

type RequestSettlementRequest struct {
	// TotalWage is optional. When present it must match the amount the
	// server computes from the caller's finished schedules.
	TotalWage int64 `json:"total_wage"`
}

type SettlementDTO struct {
	SettlementID string `json:"settlement_id"`
	UserID       string `json:"user_id"`
	TotalWage    int64  `json:"total_wage"`
	Status       string `json:"status"`
	RequestedAt  string `json:"requested_at"`
	ApprovedAt   string `json:"approved_at,omitempty"`
}

type ListSettlementsRequest struct {
	UserID string `form:"user_id"`
	Status string `form:"status"`
}

type ListSettlementsResponse struct {
	Settlements []SettlementDTO `json:"settlements"`
}

type ScheduleDTO struct {
	ScheduleID string `json:"schedule_id"`
	UserID     string `json:"user_id"`
	JobID      string `json:"job_id"`
	Title      string `json:"title"`
	Location   string `json:"location,omitempty"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	TotalWage  int64  `json:"total_wage"`
	CreatedAt  string `json:"created_at"`
}

type ListSchedulesResponse struct {
	Schedules []ScheduleDTO `json:"schedules"`
}
