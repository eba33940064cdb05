package service

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/DanilPOW/MonthProject/internal/dto"
	"github.com/DanilPOW/MonthProject/internal/model"
	"github.com/DanilPOW/MonthProject/internal/repository"
)

// ── 代码评审模块业务错误 ──

var (
	ErrSubmissionNotFound  = errors.New("提交记录不存在")
	ErrSelfReview          = errors.New("不能评审自己的提交")
	ErrDuplicateReview     = errors.New("已评审过该提交")
	ErrReviewQuotaExceeded = errors.New("评审配额已完成")
	ErrNothingToReview     = errors.New("当前没有可评审的提交")
)

// ReviewService 代码评审业务接口
//
// 匹配规则：候选集 = 该作业下全部提交，排除本人的提交与已评审过的提交，
// 在候选集中等概率随机取一条。选取无状态也无记忆：在评审落库前，
// 重复调用可能返回同一提交。落库由 (reviewer_id, submission_id)
// 唯一索引守门，Pick 与 Create 之间无需持锁，冲突时重新 Pick 即可。
type ReviewService interface {
	PickSubmission(ctx context.Context, assignmentID, reviewerID string) (*dto.SubmissionResponse, error)
	Create(ctx context.Context, reviewerID, submissionID string, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error)
}

type reviewService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewReviewService 创建 ReviewService 实例
func NewReviewService(repo *repository.Repository, logger *zap.Logger) ReviewService {
	return &reviewService{repo: repo, logger: logger}
}

// ────────────────────── PickSubmission ──────────────────────

func (s *reviewService) PickSubmission(ctx context.Context, assignmentID, reviewerID string) (*dto.SubmissionResponse, error) {
	assignment, err := s.repo.Assignment.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		s.logger.Error("查询作业失败", zap.String("id", assignmentID), zap.Error(err))
		return nil, err
	}

	track, err := s.repo.Track.GetByID(ctx, assignment.TrackID)
	if err != nil {
		s.logger.Error("查询训练营失败", zap.Error(err))
		return nil, err
	}

	reviewCount, err := s.repo.Review.CountByReviewerAndAssignment(ctx, reviewerID, assignmentID)
	if err != nil {
		s.logger.Error("统计评审数失败", zap.Error(err))
		return nil, err
	}
	if reviewCount >= int64(track.ReviewsPerUser) {
		return nil, ErrReviewQuotaExceeded
	}

	submissions, err := s.repo.Submission.ListByAssignment(ctx, assignmentID)
	if err != nil {
		s.logger.Error("查询提交列表失败", zap.Error(err))
		return nil, err
	}

	reviewedIDs, err := s.repo.Review.ListSubmissionIDsByReviewer(ctx, reviewerID)
	if err != nil {
		s.logger.Error("查询已评审提交失败", zap.Error(err))
		return nil, err
	}
	reviewed := make(map[string]struct{}, len(reviewedIDs))
	for _, id := range reviewedIDs {
		reviewed[id] = struct{}{}
	}

	eligible := make([]*model.Submission, 0, len(submissions))
	for i := range submissions {
		sub := &submissions[i]
		if sub.UserID == reviewerID {
			continue
		}
		if _, ok := reviewed[sub.SubmissionID]; ok {
			continue
		}
		eligible = append(eligible, sub)
	}

	if len(eligible) == 0 {
		return nil, ErrNothingToReview
	}

	picked := eligible[rand.Intn(len(eligible))]
	return &dto.SubmissionResponse{
		ID:            picked.SubmissionID,
		UserID:        picked.UserID,
		AssignmentID:  picked.AssignmentID,
		RepositoryURL: picked.RepositoryURL,
		SubmittedAt:   picked.SubmittedAt.Format(time.RFC3339),
	}, nil
}

// ────────────────────── Create ──────────────────────

func (s *reviewService) Create(ctx context.Context, reviewerID, submissionID string, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	submission, err := s.repo.Submission.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		s.logger.Error("查询提交记录失败", zap.String("id", submissionID), zap.Error(err))
		return nil, err
	}

	if submission.UserID == reviewerID {
		return nil, ErrSelfReview
	}

	review := &model.CodeReview{
		SubmissionID:   submissionID,
		ReviewerID:     reviewerID,
		RevieweeID:     submission.UserID,
		CriteriaScores: model.ScoreMap(req.CriteriaScores),
		Comment:        req.Comment,
		CompletedAt:    time.Now().UTC(),
	}
	if err := s.repo.Review.Create(ctx, review); err != nil {
		// (reviewer_id, submission_id) 唯一索引拒绝重复评审
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateReview
		}
		s.logger.Error("创建评审记录失败", zap.Error(err))
		return nil, err
	}

	return &dto.ReviewResponse{
		ID:             review.ReviewID,
		SubmissionID:   review.SubmissionID,
		ReviewerID:     review.ReviewerID,
		RevieweeID:     review.RevieweeID,
		CriteriaScores: review.CriteriaScores,
		Comment:        review.Comment,
		CompletedAt:    review.CompletedAt.Format(time.RFC3339),
	}, nil
}
