package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/DanilPOW/MonthProject/internal/dto"
	"github.com/DanilPOW/MonthProject/internal/model"
	"github.com/DanilPOW/MonthProject/internal/repository"
)

// ── 训练营模块业务错误 ──

var (
	ErrTrackNotFound   = errors.New("训练营不存在")
	ErrAlreadyEnrolled = errors.New("已报名该训练营")
	ErrTrackLocked     = errors.New("训练营已锁定，不可报名或退出")
	ErrNotEnrolled     = errors.New("未报名该训练营")
)

// TrackService 训练营业务接口
// 负责报名/退出与 waiting→active 的激活判定；
// Track 的 status/started_at 只允许经由本服务变更
type TrackService interface {
	Create(ctx context.Context, req *dto.CreateTrackRequest) (*dto.TrackResponse, error)
	List(ctx context.Context, offset, limit int) ([]dto.TrackResponse, error)
	ListMy(ctx context.Context, userID string) ([]dto.TrackResponse, error)
	GetByID(ctx context.Context, id string) (*dto.TrackResponse, error)
	Enroll(ctx context.Context, userID, trackID string) (*dto.EnrollmentResponse, error)
	Unenroll(ctx context.Context, userID, trackID string) error
}

type trackService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTrackService 创建 TrackService 实例
func NewTrackService(repo *repository.Repository, logger *zap.Logger) TrackService {
	return &trackService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *trackService) Create(ctx context.Context, req *dto.CreateTrackRequest) (*dto.TrackResponse, error) {
	reviewsPerUser := req.ReviewsPerUser
	if reviewsPerUser <= 0 {
		reviewsPerUser = 3
	}

	track := &model.Track{
		Title:                req.Title,
		Description:          req.Description,
		RequiredParticipants: req.RequiredParticipants,
		Status:               model.TrackStatusWaiting,
		ReviewCriteria:       model.JSONMap(req.ReviewCriteria),
		ReviewsPerUser:       reviewsPerUser,
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	txRepo := s.repo.WithTx(tx)

	if err := txRepo.Track.Create(ctx, track); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("创建训练营失败", zap.Error(err))
		return nil, err
	}

	if len(req.Assignments) > 0 {
		assignments := make([]model.Assignment, 0, len(req.Assignments))
		for _, a := range req.Assignments {
			assignments = append(assignments, model.Assignment{
				TrackID:       track.TrackID,
				Title:         a.Title,
				Description:   a.Description,
				Order:         a.Order,
				DeadlineHours: a.DeadlineHours,
			})
		}
		if err := txRepo.Assignment.BatchCreate(ctx, assignments); err != nil {
			if tx != nil {
				tx.Rollback()
			}
			s.logger.Error("创建作业失败", zap.Error(err))
			return nil, err
		}
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return nil, err
		}
	}

	return s.toTrackResponse(track, 0), nil
}

// ────────────────────── List / Get ──────────────────────

func (s *trackService) List(ctx context.Context, offset, limit int) ([]dto.TrackResponse, error) {
	tracks, err := s.repo.Track.List(ctx, offset, limit)
	if err != nil {
		s.logger.Error("列出训练营失败", zap.Error(err))
		return nil, err
	}
	return s.withCounts(ctx, tracks)
}

func (s *trackService) ListMy(ctx context.Context, userID string) ([]dto.TrackResponse, error) {
	enrollments, err := s.repo.Enrollment.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询报名记录失败", zap.Error(err))
		return nil, err
	}

	trackIDs := make([]string, 0, len(enrollments))
	for _, e := range enrollments {
		trackIDs = append(trackIDs, e.TrackID)
	}

	tracks, err := s.repo.Track.ListByIDs(ctx, trackIDs)
	if err != nil {
		s.logger.Error("查询训练营失败", zap.Error(err))
		return nil, err
	}
	return s.withCounts(ctx, tracks)
}

func (s *trackService) GetByID(ctx context.Context, id string) (*dto.TrackResponse, error) {
	track, err := s.repo.Track.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTrackNotFound
		}
		s.logger.Error("查询训练营失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	count, err := s.repo.Enrollment.CountByTrack(ctx, id)
	if err != nil {
		s.logger.Error("统计报名人数失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toTrackResponse(track, int(count)), nil
}

// ────────────────────── Enroll ──────────────────────

// Enroll 报名训练营。
// 计数与激活判定在同一事务内完成，事务先以行级锁读取 Track，
// 并发报名同一训练营时在此处串行：恰好一次 waiting→active 翻转，
// 且发生在使计数达到阈值的那次报名之后。
func (s *trackService) Enroll(ctx context.Context, userID, trackID string) (*dto.EnrollmentResponse, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	txRepo := s.repo.WithTx(tx)

	track, err := txRepo.Track.GetByIDForUpdate(ctx, trackID)
	if err != nil {
		if tx != nil {
			tx.Rollback()
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTrackNotFound
		}
		s.logger.Error("查询训练营失败", zap.String("id", trackID), zap.Error(err))
		return nil, err
	}

	if track.Status != model.TrackStatusWaiting {
		if tx != nil {
			tx.Rollback()
		}
		return nil, ErrTrackLocked
	}

	enrollment := &model.TrackEnrollment{
		UserID:     userID,
		TrackID:    trackID,
		EnrolledAt: time.Now().UTC(),
	}
	if err := txRepo.Enrollment.Create(ctx, enrollment); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		// (user_id, track_id) 唯一索引兜底重复报名
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyEnrolled
		}
		s.logger.Error("创建报名记录失败", zap.Error(err))
		return nil, err
	}

	count, err := txRepo.Enrollment.CountByTrack(ctx, trackID)
	if err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("统计报名人数失败", zap.Error(err))
		return nil, err
	}

	if count >= int64(track.RequiredParticipants) {
		if err := txRepo.Track.Activate(ctx, trackID, time.Now().UTC()); err != nil {
			if tx != nil {
				tx.Rollback()
			}
			s.logger.Error("激活训练营失败", zap.String("id", trackID), zap.Error(err))
			return nil, err
		}
		s.logger.Info("训练营满员，已激活",
			zap.String("track_id", trackID),
			zap.Int64("participants", count),
		)
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return nil, err
		}
	}

	return &dto.EnrollmentResponse{
		ID:         enrollment.EnrollmentID,
		UserID:     enrollment.UserID,
		TrackID:    enrollment.TrackID,
		EnrolledAt: enrollment.EnrolledAt.Format(time.RFC3339),
	}, nil
}

// ────────────────────── Unenroll ──────────────────────

// Unenroll 退出训练营，仅在 waiting 状态允许
func (s *trackService) Unenroll(ctx context.Context, userID, trackID string) error {
	track, err := s.repo.Track.GetByID(ctx, trackID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTrackNotFound
		}
		s.logger.Error("查询训练营失败", zap.String("id", trackID), zap.Error(err))
		return err
	}

	if track.Status != model.TrackStatusWaiting {
		return ErrTrackLocked
	}

	deleted, err := s.repo.Enrollment.Delete(ctx, userID, trackID)
	if err != nil {
		s.logger.Error("删除报名记录失败", zap.Error(err))
		return err
	}
	if !deleted {
		return ErrNotEnrolled
	}

	return nil
}

// ── 内部辅助方法 ──

func (s *trackService) withCounts(ctx context.Context, tracks []model.Track) ([]dto.TrackResponse, error) {
	result := make([]dto.TrackResponse, 0, len(tracks))
	for i := range tracks {
		count, err := s.repo.Enrollment.CountByTrack(ctx, tracks[i].TrackID)
		if err != nil {
			s.logger.Error("统计报名人数失败", zap.String("id", tracks[i].TrackID), zap.Error(err))
			return nil, err
		}
		result = append(result, *s.toTrackResponse(&tracks[i], int(count)))
	}
	return result, nil
}

func (s *trackService) toTrackResponse(track *model.Track, participants int) *dto.TrackResponse {
	var startedAt *string
	if track.StartedAt != nil {
		v := track.StartedAt.Format(time.RFC3339)
		startedAt = &v
	}
	return &dto.TrackResponse{
		ID:                   track.TrackID,
		Title:                track.Title,
		Description:          track.Description,
		RequiredParticipants: track.RequiredParticipants,
		CurrentParticipants:  participants,
		Status:               track.Status,
		StartedAt:            startedAt,
		ReviewCriteria:       track.ReviewCriteria,
		ReviewsPerUser:       track.ReviewsPerUser,
		CreatedAt:            track.CreatedAt.Format(time.RFC3339),
	}
}
