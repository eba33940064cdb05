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

// DiaryService 学习日记服务接口
// 日记按作业聚合，仅追加，不参与阶段推进
type DiaryService interface {
	Create(ctx context.Context, userID, assignmentID string, req *dto.CreateDiaryEntryRequest) (*dto.DiaryEntryResponse, error)
	ListByAssignment(ctx context.Context, userID, assignmentID string) ([]dto.DiaryEntryResponse, error)
}

type diaryService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDiaryService 创建 DiaryService 实例
func NewDiaryService(repo *repository.Repository, logger *zap.Logger) DiaryService {
	return &diaryService{repo: repo, logger: logger}
}

func (s *diaryService) Create(ctx context.Context, userID, assignmentID string, req *dto.CreateDiaryEntryRequest) (*dto.DiaryEntryResponse, error) {
	assignment, err := s.repo.Assignment.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		s.logger.Error("查询作业失败", zap.Error(err))
		return nil, err
	}

	// 写日记要求已报名该训练营
	if _, err := s.repo.Enrollment.Get(ctx, userID, assignment.TrackID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotEnrolled
		}
		s.logger.Error("查询报名记录失败", zap.Error(err))
		return nil, err
	}

	entry := &model.DiaryEntry{
		UserID:       userID,
		AssignmentID: assignmentID,
		Content:      req.Content,
	}
	if err := s.repo.Diary.Create(ctx, entry); err != nil {
		s.logger.Error("创建日记失败", zap.Error(err))
		return nil, err
	}

	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	resp := toDiaryEntryResponse(entry, user.Username)
	return &resp, nil
}

func (s *diaryService) ListByAssignment(ctx context.Context, userID, assignmentID string) ([]dto.DiaryEntryResponse, error) {
	assignment, err := s.repo.Assignment.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		s.logger.Error("查询作业失败", zap.Error(err))
		return nil, err
	}

	if _, err := s.repo.Enrollment.Get(ctx, userID, assignment.TrackID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotEnrolled
		}
		s.logger.Error("查询报名记录失败", zap.Error(err))
		return nil, err
	}

	entries, err := s.repo.Diary.ListByAssignment(ctx, assignmentID)
	if err != nil {
		s.logger.Error("查询日记列表失败", zap.Error(err))
		return nil, err
	}

	responses := make([]dto.DiaryEntryResponse, 0, len(entries))
	for i := range entries {
		username := ""
		if entries[i].User != nil {
			username = entries[i].User.Username
		}
		responses = append(responses, toDiaryEntryResponse(&entries[i], username))
	}
	return responses, nil
}

func toDiaryEntryResponse(entry *model.DiaryEntry, username string) dto.DiaryEntryResponse {
	return dto.DiaryEntryResponse{
		ID:           entry.EntryID,
		UserID:       entry.UserID,
		Username:     username,
		AssignmentID: entry.AssignmentID,
		Content:      entry.Content,
		CreatedAt:    entry.CreatedAt.Format(time.RFC3339),
	}
}
