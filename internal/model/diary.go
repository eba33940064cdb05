package model

import "time"

// DiaryEntry 学习日记表 — 对应 diary_entries
// 按作业聚合的追加式笔记，无工作流逻辑
type DiaryEntry struct {
	EntryID      string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"entry_id"`
	UserID       string    `gorm:"type:uuid;not null"                             json:"user_id"`
	AssignmentID string    `gorm:"type:uuid;not null"                             json:"assignment_id"`
	Content      string    `gorm:"type:text;not null"                             json:"content"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	// 关联
	User       *User       `gorm:"foreignKey:UserID;references:UserID"             json:"user,omitempty"`
	Assignment *Assignment `gorm:"foreignKey:AssignmentID;references:AssignmentID" json:"assignment,omitempty"`
}

// TableName 指定表名
func (DiaryEntry) TableName() string { return "diary_entries" }
