package dto

type SubmitApplicationRequest struct {
	JobID string `json:"job_id" binding:"required"`
}

type ApplicationDTO struct {
	ApplicationID string `json:"application_id"`
	JobID         string `json:"job_id"`
	UserID        string `json:"user_id"`
	UserEmail     string `json:"user_email"`
	JobTitle      string `json:"job_title"`
	Wage          int64  `json:"wage"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	Status        string `json:"status"`
	AppliedAt     string `json:"applied_at"`
	ApprovedAt    string `json:"approved_at,omitempty"`
	TotalWage     *int64 `json:"total_wage,omitempty"`
}

type ListApplicationsRequest struct {
	JobID  string `form:"job_id"`
	Status string `form:"status"`
}

type ListApplicationsResponse struct {
	Applications []ApplicationDTO `json:"applications"`
}
