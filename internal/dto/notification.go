package dto

// ── 通知模块 DTO ──

// 通知类型
const (
	NotificationDeadlineWarning   = "deadline_warning"    // 距训练营级截止 ≤2 天
	NotificationReviewPhaseStart  = "review_phase_start"  // 评审阶段已开始
	NotificationDeadlineThreshold = "deadline_threshold"  // 个人提交时限已用 80%
)

// NotificationResponse 通知事实
// 引擎只产出条件成立与否，投递由独立的分发器完成
type NotificationResponse struct {
	Type         string `json:"type"`
	Message      string `json:"message"`
	TrackID      string `json:"track_id,omitempty"`
	AssignmentID string `json:"assignment_id,omitempty"`
	DaysLeft     *int   `json:"days_left,omitempty"`
}
