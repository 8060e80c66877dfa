package dto

type CreateJobPostingRequest struct {
	Title        string   `json:"title" binding:"required"`
	Location     string   `json:"location"`
	Wage         int64    `json:"wage" binding:"required,gt=0"`
	StartDate    string   `json:"start_date" binding:"required"`
	EndDate      string   `json:"end_date" binding:"required"`
	WorkDays     []string `json:"work_days"`
	WorkHours    string   `json:"work_hours"`
	RecruitCount int      `json:"recruit_count"`
	// Visibility is "all" or "custom". For "custom" the poster passes the
	// target users explicitly; there is no server-side selection state.
	Visibility string   `json:"visibility"`
	VisibleTo  []string `json:"visible_to"`
}

type UpdateJobPostingRequest struct {
	Title        string   `json:"title" binding:"required"`
	Location     string   `json:"location"`
	Wage         int64    `json:"wage" binding:"required,gt=0"`
	StartDate    string   `json:"start_date" binding:"required"`
	EndDate      string   `json:"end_date" binding:"required"`
	WorkDays     []string `json:"work_days"`
	WorkHours    string   `json:"work_hours"`
	RecruitCount int      `json:"recruit_count"`
	Visibility   string   `json:"visibility"`
	VisibleTo    []string `json:"visible_to"`
}

type ListJobPostingsRequest struct {
	PageSize int    `form:"page_size"`
	Cursor   string `form:"cursor"`
}

type JobPostingDTO struct {
	JobID        string   `json:"job_id"`
	Title        string   `json:"title"`
	Location     string   `json:"location"`
	Wage         int64    `json:"wage"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	WorkDays     []string `json:"work_days"`
	WorkHours    string   `json:"work_hours"`
	RecruitCount int      `json:"recruit_count"`
	Visibility   string   `json:"visibility"`
	VisibleTo    []string `json:"visible_to,omitempty"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

type ListJobPostingsResponse struct {
	Jobs       []JobPostingDTO `json:"jobs"`
	NextCursor string          `json:"next_cursor,omitempty"`
}
