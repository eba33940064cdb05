package dto

// ── 学习日记模块 DTO ──

// CreateDiaryEntryRequest 写日记请求
type CreateDiaryEntryRequest struct {
	Content string `json:"content" binding:"required,min=1,max=10000"`
}

// DiaryEntryResponse 日记响应（附作者用户名）
type DiaryEntryResponse struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	Username     string `json:"username"`
	AssignmentID string `json:"assignment_id"`
	Content      string `json:"content"`
	CreatedAt    string `json:"created_at"`
}
