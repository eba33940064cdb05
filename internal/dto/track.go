package dto

// ── 训练营模块 DTO ──

// CreateTrackRequest 创建训练营请求（含作业清单，由管理端调用）
type CreateTrackRequest struct {
	Title                string                    `json:"title"                 binding:"required,min=2,max=200"`
	Description          string                    `json:"description"`
	RequiredParticipants int                       `json:"required_participants" binding:"required,min=1"`
	ReviewCriteria       map[string]string         `json:"review_criteria"       binding:"required"`
	ReviewsPerUser       int                       `json:"reviews_per_user"      binding:"omitempty,min=1"`
	Assignments          []CreateAssignmentRequest `json:"assignments"           binding:"omitempty,dive"`
}

// CreateAssignmentRequest 创建作业请求（随训练营一并创建）
type CreateAssignmentRequest struct {
	Title         string `json:"title"          binding:"required,min=2,max=200"`
	Description   string `json:"description"    binding:"required"`
	Order         int    `json:"order"          binding:"required,min=1"`
	DeadlineHours int    `json:"deadline_hours" binding:"required,min=1"`
}

// TrackResponse 训练营信息响应
// CurrentParticipants 为报名表的实时计数
type TrackResponse struct {
	ID                   string            `json:"id"`
	Title                string            `json:"title"`
	Description          string            `json:"description"`
	RequiredParticipants int               `json:"required_participants"`
	CurrentParticipants  int               `json:"current_participants"`
	Status               string            `json:"status"`
	StartedAt            *string           `json:"started_at,omitempty"`
	ReviewCriteria       map[string]string `json:"review_criteria"`
	ReviewsPerUser       int               `json:"reviews_per_user"`
	CreatedAt            string            `json:"created_at"`
}

// EnrollmentResponse 报名记录响应
type EnrollmentResponse struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	TrackID    string `json:"track_id"`
	EnrolledAt string `json:"enrolled_at"`
}
