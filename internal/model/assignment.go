package model

import "time"

// Assignment 作业表 — 对应 assignments
// Order 在同一训练营内严格递增；解析时按 Order 排序，允许编号存在空洞
type Assignment struct {
	AssignmentID  string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"assignment_id"`
	TrackID       string    `gorm:"type:uuid;not null"                             json:"track_id"`
	Title         string    `gorm:"type:varchar(200);not null"                     json:"title"`
	Description   string    `gorm:"type:text;not null"                             json:"description"`
	Order         int       `gorm:"column:\"order\";not null"                      json:"order"`
	DeadlineHours int       `gorm:"not null"                                       json:"deadline_hours"`
	CreatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	// 关联
	Track       *Track       `gorm:"foreignKey:TrackID;references:TrackID" json:"track,omitempty"`
	Submissions []Submission `gorm:"foreignKey:AssignmentID"               json:"submissions,omitempty"`
}

// TableName 指定表名
func (Assignment) TableName() string { return "assignments" }

// Submission 作业提交表 — 对应 submissions
// (user_id, assignment_id) 唯一：每人每个作业只能提交一次，重复提交由存储层拒绝
type Submission struct {
	SubmissionID             string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"                 json:"submission_id"`
	UserID                   string    `gorm:"type:uuid;not null;uniqueIndex:idx_submissions_user_assignment" json:"user_id"`
	AssignmentID             string    `gorm:"type:uuid;not null;uniqueIndex:idx_submissions_user_assignment" json:"assignment_id"`
	RepositoryURL            string    `gorm:"type:varchar(500);not null"                                     json:"repository_url"`
	SubmittedAt              time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"                             json:"submitted_at"`
	DeadlineNotificationSent bool      `gorm:"not null;default:false"                                         json:"deadline_notification_sent"`

	// 关联
	User       *User       `gorm:"foreignKey:UserID;references:UserID"                   json:"user,omitempty"`
	Assignment *Assignment `gorm:"foreignKey:AssignmentID;references:AssignmentID"       json:"assignment,omitempty"`
	Reviews    []CodeReview `gorm:"foreignKey:SubmissionID"                              json:"reviews,omitempty"`
}

// TableName 指定表名
func (Submission) TableName() string { return "submissions" }
