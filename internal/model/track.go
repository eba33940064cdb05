package model

import "time"

// ── 训练营状态 ──
//
// 状态只沿 waiting → active → completed 单向推进：
//   - waiting   组队中，可报名/退出
//   - active    满员后锁定，started_at 同时写入（仅写一次）
//   - completed 预留的终态（当前业务流程不会触达）
const (
	TrackStatusWaiting   = "waiting"
	TrackStatusActive    = "active"
	TrackStatusCompleted = "completed"
)

// Track 训练营表 — 对应 tracks
type Track struct {
	TrackID              string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"track_id"`
	Title                string     `gorm:"type:varchar(200);not null"                     json:"title"`
	Description          string     `gorm:"type:text"                                      json:"description"`
	RequiredParticipants int        `gorm:"not null"                                       json:"required_participants"`
	Status               string     `gorm:"type:varchar(20);not null;default:'waiting'"    json:"status"`
	StartedAt            *time.Time `json:"started_at,omitempty"`
	ReviewCriteria       JSONMap    `gorm:"type:jsonb;not null"                            json:"review_criteria"`
	ReviewsPerUser       int        `gorm:"not null;default:3"                             json:"reviews_per_user"`
	CreatedAt            time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	// 关联
	Enrollments []TrackEnrollment `gorm:"foreignKey:TrackID" json:"enrollments,omitempty"`
	Assignments []Assignment      `gorm:"foreignKey:TrackID" json:"assignments,omitempty"`
}

// TableName 指定表名
func (Track) TableName() string { return "tracks" }

// TrackEnrollment 训练营报名表 — 对应 track_enrollments
// (user_id, track_id) 由唯一索引保证不重复报名
type TrackEnrollment struct {
	EnrollmentID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"            json:"enrollment_id"`
	UserID       string    `gorm:"type:uuid;not null;uniqueIndex:idx_enrollments_user_track" json:"user_id"`
	TrackID      string    `gorm:"type:uuid;not null;uniqueIndex:idx_enrollments_user_track" json:"track_id"`
	EnrolledAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"                        json:"enrolled_at"`

	// 关联
	User  *User  `gorm:"foreignKey:UserID;references:UserID"    json:"user,omitempty"`
	Track *Track `gorm:"foreignKey:TrackID;references:TrackID"  json:"track,omitempty"`
}

// TableName 指定表名
func (TrackEnrollment) TableName() string { return "track_enrollments" }
