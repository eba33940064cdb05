package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/DanilPOW/MonthProject/internal/model"
)

// DiaryRepository 学习日记数据访问接口
type DiaryRepository interface {
	Create(ctx context.Context, entry *model.DiaryEntry) error
	ListByAssignment(ctx context.Context, assignmentID string) ([]model.DiaryEntry, error)
}

type diaryRepo struct {
	db *gorm.DB
}

// NewDiaryRepo 创建 DiaryRepository 实例
func NewDiaryRepo(db *gorm.DB) DiaryRepository {
	return &diaryRepo{db: db}
}

func (r *diaryRepo) Create(ctx context.Context, entry *model.DiaryEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *diaryRepo) ListByAssignment(ctx context.Context, assignmentID string) ([]model.DiaryEntry, error) {
	var entries []model.DiaryEntry
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("assignment_id = ?", assignmentID).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}
