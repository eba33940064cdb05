package dto

// ── 代码评审模块 DTO ──

// CreateReviewRequest 提交评审请求
// CriteriaScores 的键宽松对应 Track.ReviewCriteria，不做严格校验
type CreateReviewRequest struct {
	CriteriaScores map[string]float64 `json:"criteria_scores" binding:"required"`
	Comment        string             `json:"comment"`
}

// ReviewResponse 评审记录响应
type ReviewResponse struct {
	ID             string             `json:"id"`
	SubmissionID   string             `json:"submission_id"`
	ReviewerID     string             `json:"reviewer_id"`
	RevieweeID     string             `json:"reviewee_id"`
	CriteriaScores map[string]float64 `json:"criteria_scores"`
	Comment        string             `json:"comment"`
	CompletedAt    string             `json:"completed_at"`
}
