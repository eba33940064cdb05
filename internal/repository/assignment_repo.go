package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/DanilPOW/MonthProject/internal/model"
)

// AssignmentRepository 作业数据访问接口
type AssignmentRepository interface {
	BatchCreate(ctx context.Context, assignments []model.Assignment) error
	GetByID(ctx context.Context, id string) (*model.Assignment, error)
	// ListByTrack 按 order 升序返回；order 允许存在空洞
	ListByTrack(ctx context.Context, trackID string) ([]model.Assignment, error)
}

// SubmissionRepository 作业提交数据访问接口
type SubmissionRepository interface {
	Create(ctx context.Context, submission *model.Submission) error
	GetByID(ctx context.Context, id string) (*model.Submission, error)
	GetByUserAndAssignment(ctx context.Context, userID, assignmentID string) (*model.Submission, error)
	ListByAssignment(ctx context.Context, assignmentID string) ([]model.Submission, error)
	ListByUserAndAssignments(ctx context.Context, userID string, assignmentIDs []string) ([]model.Submission, error)
	// ListUnnotified 返回尚未触发截止提醒的提交（附作业信息）
	ListUnnotified(ctx context.Context) ([]model.Submission, error)
	// MarkNotified 单向闩锁：仅当提醒位仍为 false 时置位，
	// 返回本次调用是否真正完成了置位（并发置位时只有一方为 true）
	MarkNotified(ctx context.Context, id string) (bool, error)
}

// ── Assignment Repository 实现 ──

type assignmentRepo struct {
	db *gorm.DB
}

// NewAssignmentRepo 创建 AssignmentRepository 实例
func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) BatchCreate(ctx context.Context, assignments []model.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&assignments).Error
}

func (r *assignmentRepo) GetByID(ctx context.Context, id string) (*model.Assignment, error) {
	var assignment model.Assignment
	err := r.db.WithContext(ctx).
		Where("assignment_id = ?", id).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepo) ListByTrack(ctx context.Context, trackID string) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.db.WithContext(ctx).
		Where("track_id = ?", trackID).
		Order(`"order" ASC`).
		Find(&assignments).Error
	return assignments, err
}

// ── Submission Repository 实现 ──

type submissionRepo struct {
	db *gorm.DB
}

// NewSubmissionRepo 创建 SubmissionRepository 实例
func NewSubmissionRepo(db *gorm.DB) SubmissionRepository {
	return &submissionRepo{db: db}
}

func (r *submissionRepo) Create(ctx context.Context, submission *model.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *submissionRepo) GetByID(ctx context.Context, id string) (*model.Submission, error) {
	var submission model.Submission
	err := r.db.WithContext(ctx).
		Where("submission_id = ?", id).
		First(&submission).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepo) GetByUserAndAssignment(ctx context.Context, userID, assignmentID string) (*model.Submission, error) {
	var submission model.Submission
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND assignment_id = ?", userID, assignmentID).
		First(&submission).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepo) ListByAssignment(ctx context.Context, assignmentID string) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.db.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Order("submitted_at ASC").
		Find(&submissions).Error
	return submissions, err
}

func (r *submissionRepo) ListByUserAndAssignments(ctx context.Context, userID string, assignmentIDs []string) ([]model.Submission, error) {
	if len(assignmentIDs) == 0 {
		return nil, nil
	}
	var submissions []model.Submission
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND assignment_id IN ?", userID, assignmentIDs).
		Find(&submissions).Error
	return submissions, err
}

func (r *submissionRepo) ListUnnotified(ctx context.Context) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.db.WithContext(ctx).
		Preload("Assignment").
		Where("deadline_notification_sent = ?", false).
		Find(&submissions).Error
	return submissions, err
}

func (r *submissionRepo) MarkNotified(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Submission{}).
		Where("submission_id = ? AND deadline_notification_sent = ?", id, false).
		Update("deadline_notification_sent", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
