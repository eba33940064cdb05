package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	User       UserRepository
	Track      TrackRepository
	Enrollment EnrollmentRepository
	Assignment AssignmentRepository
	Submission SubmissionRepository
	Review     ReviewRepository
	Diary      DiaryRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:         db,
		User:       NewUserRepo(db),
		Track:      NewTrackRepo(db),
		Enrollment: NewEnrollmentRepo(db),
		Assignment: NewAssignmentRepo(db),
		Submission: NewSubmissionRepo(db),
		Review:     NewReviewRepo(db),
		Diary:      NewDiaryRepo(db),
	}
}

// BeginTx 开启事务；db 为空（纯 mock 场景）时返回 nil 事务，
// 调用方需对 nil 事务跳过 Commit/Rollback
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return tx, nil
}

// WithTx 返回绑定到指定事务连接的 Repository 副本
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}
