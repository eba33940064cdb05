package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/DanilPOW/MonthProject/internal/model"
)

// TrackRepository 训练营数据访问接口
type TrackRepository interface {
	Create(ctx context.Context, track *model.Track) error
	GetByID(ctx context.Context, id string) (*model.Track, error)
	// GetByIDForUpdate 行级锁读取，用于报名计数与激活判定的串行化
	GetByIDForUpdate(ctx context.Context, id string) (*model.Track, error)
	List(ctx context.Context, offset, limit int) ([]model.Track, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.Track, error)
	ListByStatus(ctx context.Context, status string) ([]model.Track, error)
	// Activate 置为 active 并写入 started_at（仅对 waiting 状态生效）
	Activate(ctx context.Context, id string, startedAt time.Time) error
}

// EnrollmentRepository 报名数据访问接口
type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *model.TrackEnrollment) error
	Get(ctx context.Context, userID, trackID string) (*model.TrackEnrollment, error)
	Delete(ctx context.Context, userID, trackID string) (bool, error)
	CountByTrack(ctx context.Context, trackID string) (int64, error)
	ListByUser(ctx context.Context, userID string) ([]model.TrackEnrollment, error)
	ListByTrack(ctx context.Context, trackID string) ([]model.TrackEnrollment, error)
}

// ── Track Repository 实现 ──

type trackRepo struct {
	db *gorm.DB
}

// NewTrackRepo 创建 TrackRepository 实例
func NewTrackRepo(db *gorm.DB) TrackRepository {
	return &trackRepo{db: db}
}

func (r *trackRepo) Create(ctx context.Context, track *model.Track) error {
	return r.db.WithContext(ctx).Create(track).Error
}

func (r *trackRepo) GetByID(ctx context.Context, id string) (*model.Track, error) {
	var track model.Track
	err := r.db.WithContext(ctx).
		Where("track_id = ?", id).
		First(&track).Error
	if err != nil {
		return nil, err
	}
	return &track, nil
}

func (r *trackRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.Track, error) {
	var track model.Track
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("track_id = ?", id).
		First(&track).Error
	if err != nil {
		return nil, err
	}
	return &track, nil
}

func (r *trackRepo) List(ctx context.Context, offset, limit int) ([]model.Track, error) {
	var tracks []model.Track
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Offset(offset).Limit(limit).
		Find(&tracks).Error
	return tracks, err
}

func (r *trackRepo) ListByIDs(ctx context.Context, ids []string) ([]model.Track, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tracks []model.Track
	err := r.db.WithContext(ctx).
		Where("track_id IN ?", ids).
		Order("created_at ASC").
		Find(&tracks).Error
	return tracks, err
}

func (r *trackRepo) ListByStatus(ctx context.Context, status string) ([]model.Track, error) {
	var tracks []model.Track
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Find(&tracks).Error
	return tracks, err
}

func (r *trackRepo) Activate(ctx context.Context, id string, startedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Track{}).
		Where("track_id = ? AND status = ?", id, model.TrackStatusWaiting).
		Updates(map[string]interface{}{
			"status":     model.TrackStatusActive,
			"started_at": startedAt,
		}).Error
}

// ── Enrollment Repository 实现 ──

type enrollmentRepo struct {
	db *gorm.DB
}

// NewEnrollmentRepo 创建 EnrollmentRepository 实例
func NewEnrollmentRepo(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepo{db: db}
}

func (r *enrollmentRepo) Create(ctx context.Context, enrollment *model.TrackEnrollment) error {
	return r.db.WithContext(ctx).Create(enrollment).Error
}

func (r *enrollmentRepo) Get(ctx context.Context, userID, trackID string) (*model.TrackEnrollment, error) {
	var enrollment model.TrackEnrollment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND track_id = ?", userID, trackID).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *enrollmentRepo) Delete(ctx context.Context, userID, trackID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND track_id = ?", userID, trackID).
		Delete(&model.TrackEnrollment{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *enrollmentRepo) CountByTrack(ctx context.Context, trackID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.TrackEnrollment{}).
		Where("track_id = ?", trackID).
		Count(&count).Error
	return count, err
}

func (r *enrollmentRepo) ListByUser(ctx context.Context, userID string) ([]model.TrackEnrollment, error) {
	var enrollments []model.TrackEnrollment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("enrolled_at ASC").
		Find(&enrollments).Error
	return enrollments, err
}

func (r *enrollmentRepo) ListByTrack(ctx context.Context, trackID string) ([]model.TrackEnrollment, error) {
	var enrollments []model.TrackEnrollment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("track_id = ?", trackID).
		Order("enrolled_at ASC").
		Find(&enrollments).Error
	return enrollments, err
}
