package dto

// ── 作业模块 DTO ──

// 作业阶段：每个 (用户, 作业) 处于以下之一，只会单向前进
//   submission  → 尚未提交
//   code_review → 已提交，评审配额未完成
//   completed   → 提交且评审配额已完成
const (
	StageSubmission = "submission"
	StageCodeReview = "code_review"
	StageCompleted  = "completed"
)

// SubmitRequest 提交作业请求
type SubmitRequest struct {
	RepositoryURL string `json:"repository_url" binding:"required,url,max=500"`
}

// AssignmentResponse 作业基础信息响应
type AssignmentResponse struct {
	ID            string `json:"id"`
	TrackID       string `json:"track_id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Order         int    `json:"order"`
	DeadlineHours int    `json:"deadline_hours"`
	CreatedAt     string `json:"created_at"`
}

// AssignmentWithStatus 作业 + 当前用户的进度状态
// IsAvailable 仅对「当前作业」为 true；后续作业在前序完成前不可用
type AssignmentWithStatus struct {
	AssignmentResponse
	CurrentStage       string  `json:"current_stage"`
	IsAvailable        bool    `json:"is_available"`
	SubmissionDeadline *string `json:"submission_deadline,omitempty"`
	CodeReviewDeadline *string `json:"code_review_deadline,omitempty"`
}

// SubmissionResponse 提交记录响应
type SubmissionResponse struct {
	ID            string `json:"id"`
	UserID        string `json:"user_id"`
	AssignmentID  string `json:"assignment_id"`
	RepositoryURL string `json:"repository_url"`
	SubmittedAt   string `json:"submitted_at"`
}
