package model

import "time"

// CodeReview 代码评审表 — 对应 code_reviews
// (reviewer_id, submission_id) 唯一：同一评审人对同一提交只能评审一次。
// RevieweeID 冗余自 Submission.UserID，便于按被评人查询。
type CodeReview struct {
	ReviewID     string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"              json:"review_id"`
	SubmissionID string    `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_reviewer_submission" json:"submission_id"`
	ReviewerID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_reviewer_submission" json:"reviewer_id"`
	RevieweeID   string    `gorm:"type:uuid;not null"                                          json:"reviewee_id"`
	CriteriaScores ScoreMap `gorm:"type:jsonb"                                                 json:"criteria_scores"`
	Comment      string    `gorm:"type:text"                                                   json:"comment"`
	CompletedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"                          json:"completed_at"`

	// 关联
	Submission *Submission `gorm:"foreignKey:SubmissionID;references:SubmissionID" json:"submission,omitempty"`
	Reviewer   *User       `gorm:"foreignKey:ReviewerID;references:UserID"         json:"reviewer,omitempty"`
	Reviewee   *User       `gorm:"foreignKey:RevieweeID;references:UserID"         json:"reviewee,omitempty"`
}

// TableName 指定表名
func (CodeReview) TableName() string { return "code_reviews" }
