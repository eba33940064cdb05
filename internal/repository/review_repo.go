package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/DanilPOW/MonthProject/internal/model"
)

// ReviewRepository 代码评审数据访问接口
type ReviewRepository interface {
	Create(ctx context.Context, review *model.CodeReview) error
	// CountByReviewerAndAssignment 评审人在某作业下已完成的评审数
	// （按提交归属作业联表统计，自评不可能出现，匹配阶段已排除）
	CountByReviewerAndAssignment(ctx context.Context, reviewerID, assignmentID string) (int64, error)
	// ListSubmissionIDsByReviewer 评审人已评审过的提交 ID 集合
	ListSubmissionIDsByReviewer(ctx context.Context, reviewerID string) ([]string, error)
	// ListByAssignment 某作业下全部评审记录（联表提交）
	ListByAssignment(ctx context.Context, assignmentID string) ([]model.CodeReview, error)
}

type reviewRepo struct {
	db *gorm.DB
}

// NewReviewRepo 创建 ReviewRepository 实例
func NewReviewRepo(db *gorm.DB) ReviewRepository {
	return &reviewRepo{db: db}
}

func (r *reviewRepo) Create(ctx context.Context, review *model.CodeReview) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepo) CountByReviewerAndAssignment(ctx context.Context, reviewerID, assignmentID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.CodeReview{}).
		Joins("JOIN submissions ON submissions.submission_id = code_reviews.submission_id").
		Where("code_reviews.reviewer_id = ? AND submissions.assignment_id = ?", reviewerID, assignmentID).
		Count(&count).Error
	return count, err
}

func (r *reviewRepo) ListSubmissionIDsByReviewer(ctx context.Context, reviewerID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.CodeReview{}).
		Where("reviewer_id = ?", reviewerID).
		Pluck("submission_id", &ids).Error
	return ids, err
}

func (r *reviewRepo) ListByAssignment(ctx context.Context, assignmentID string) ([]model.CodeReview, error) {
	var reviews []model.CodeReview
	err := r.db.WithContext(ctx).
		Joins("JOIN submissions ON submissions.submission_id = code_reviews.submission_id").
		Where("submissions.assignment_id = ?", assignmentID).
		Find(&reviews).Error
	return reviews, err
}
