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

// ── 作业模块业务错误 ──

var (
	ErrAssignmentNotFound  = errors.New("作业不存在")
	ErrTrackNotActive      = errors.New("训练营尚未开始")
	ErrDuplicateSubmission = errors.New("该作业已提交过")
	ErrNoCurrentAssignment = errors.New("没有可做的作业")
)

// AssignmentService 作业进度业务接口
//
// 进度解析规则：作业按 order 升序逐个检查，每个 (用户, 作业) 的阶段为
//   submission → code_review → completed，只会单向前进；
// 「当前作业」是第一个未 completed 的作业，之后的作业一律不可用，
// 因此学员不可能在第 k 个作业未完成时触达第 k+1 个。
type AssignmentService interface {
	ListWithStatus(ctx context.Context, trackID, userID string) ([]dto.AssignmentWithStatus, error)
	Current(ctx context.Context, trackID, userID string) (*dto.AssignmentWithStatus, error)
	Submit(ctx context.Context, assignmentID, userID string, req *dto.SubmitRequest) (*dto.SubmissionResponse, error)
}

type assignmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAssignmentService 创建 AssignmentService 实例
func NewAssignmentService(repo *repository.Repository, logger *zap.Logger) AssignmentService {
	return &assignmentService{repo: repo, logger: logger}
}

// ────────────────────── ListWithStatus ──────────────────────

func (s *assignmentService) ListWithStatus(ctx context.Context, trackID, userID string) ([]dto.AssignmentWithStatus, error) {
	statuses, _, err := s.resolve(ctx, trackID, userID)
	return statuses, err
}

// ────────────────────── Current ──────────────────────

func (s *assignmentService) Current(ctx context.Context, trackID, userID string) (*dto.AssignmentWithStatus, error) {
	statuses, currentIdx, err := s.resolve(ctx, trackID, userID)
	if err != nil {
		return nil, err
	}
	if currentIdx < 0 {
		// 全部作业已完成
		return nil, ErrNoCurrentAssignment
	}
	return &statuses[currentIdx], nil
}

// resolve 计算训练营内每个作业对该用户的阶段与可用性。
// 返回值 currentIdx 为当前作业下标，全部完成时为 -1。
func (s *assignmentService) resolve(ctx context.Context, trackID, userID string) ([]dto.AssignmentWithStatus, int, error) {
	track, err := s.repo.Track.GetByID(ctx, trackID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, -1, ErrTrackNotFound
		}
		s.logger.Error("查询训练营失败", zap.String("id", trackID), zap.Error(err))
		return nil, -1, err
	}

	if _, err := s.repo.Enrollment.Get(ctx, userID, trackID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, -1, ErrNotEnrolled
		}
		s.logger.Error("查询报名记录失败", zap.Error(err))
		return nil, -1, err
	}

	assignments, err := s.repo.Assignment.ListByTrack(ctx, trackID)
	if err != nil {
		s.logger.Error("查询作业列表失败", zap.Error(err))
		return nil, -1, err
	}

	assignmentIDs := make([]string, 0, len(assignments))
	for _, a := range assignments {
		assignmentIDs = append(assignmentIDs, a.AssignmentID)
	}
	submissions, err := s.repo.Submission.ListByUserAndAssignments(ctx, userID, assignmentIDs)
	if err != nil {
		s.logger.Error("查询提交记录失败", zap.Error(err))
		return nil, -1, err
	}
	byAssignment := make(map[string]*model.Submission, len(submissions))
	for i := range submissions {
		byAssignment[submissions[i].AssignmentID] = &submissions[i]
	}

	statuses := make([]dto.AssignmentWithStatus, 0, len(assignments))
	currentIdx := -1
	for i := range assignments {
		a := &assignments[i]
		stage, deadline, err := s.stageFor(ctx, userID, a, byAssignment[a.AssignmentID], track.ReviewsPerUser)
		if err != nil {
			return nil, -1, err
		}

		status := dto.AssignmentWithStatus{
			AssignmentResponse: toAssignmentResponse(a),
			CurrentStage:       stage,
		}
		if deadline != nil {
			v := deadline.Format(time.RFC3339)
			status.SubmissionDeadline = &v
			status.CodeReviewDeadline = &v
		}
		// 只有第一个未完成的作业可用，后续作业被前序阻塞
		if stage != dto.StageCompleted && currentIdx < 0 {
			currentIdx = i
			status.IsAvailable = true
		}
		statuses = append(statuses, status)
	}

	return statuses, currentIdx, nil
}

// stageFor 计算单个 (用户, 作业) 的阶段。
// code_review 阶段返回评审截止时间：本人提交时间 + deadline_hours。
func (s *assignmentService) stageFor(ctx context.Context, userID string, assignment *model.Assignment, submission *model.Submission, reviewsPerUser int) (string, *time.Time, error) {
	if submission == nil {
		return dto.StageSubmission, nil, nil
	}

	reviewCount, err := s.repo.Review.CountByReviewerAndAssignment(ctx, userID, assignment.AssignmentID)
	if err != nil {
		s.logger.Error("统计评审数失败", zap.Error(err))
		return "", nil, err
	}
	if reviewCount < int64(reviewsPerUser) {
		deadline := submission.SubmittedAt.Add(time.Duration(assignment.DeadlineHours) * time.Hour)
		return dto.StageCodeReview, &deadline, nil
	}
	return dto.StageCompleted, nil, nil
}

// ────────────────────── Submit ──────────────────────

func (s *assignmentService) Submit(ctx context.Context, assignmentID, userID string, req *dto.SubmitRequest) (*dto.SubmissionResponse, error) {
	assignment, err := s.repo.Assignment.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		s.logger.Error("查询作业失败", zap.String("id", assignmentID), zap.Error(err))
		return nil, err
	}

	if _, err := s.repo.Enrollment.Get(ctx, userID, assignment.TrackID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotEnrolled
		}
		s.logger.Error("查询报名记录失败", zap.Error(err))
		return nil, err
	}

	track, err := s.repo.Track.GetByID(ctx, assignment.TrackID)
	if err != nil {
		s.logger.Error("查询训练营失败", zap.Error(err))
		return nil, err
	}
	if track.Status != model.TrackStatusActive {
		return nil, ErrTrackNotActive
	}

	submission := &model.Submission{
		UserID:        userID,
		AssignmentID:  assignmentID,
		RepositoryURL: req.RepositoryURL,
		SubmittedAt:   time.Now().UTC(),
	}
	if err := s.repo.Submission.Create(ctx, submission); err != nil {
		// (user_id, assignment_id) 唯一索引拒绝重复提交
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateSubmission
		}
		s.logger.Error("创建提交记录失败", zap.Error(err))
		return nil, err
	}

	return &dto.SubmissionResponse{
		ID:            submission.SubmissionID,
		UserID:        submission.UserID,
		AssignmentID:  submission.AssignmentID,
		RepositoryURL: submission.RepositoryURL,
		SubmittedAt:   submission.SubmittedAt.Format(time.RFC3339),
	}, nil
}

// ── 内部辅助方法 ──

func toAssignmentResponse(a *model.Assignment) dto.AssignmentResponse {
	return dto.AssignmentResponse{
		ID:            a.AssignmentID,
		TrackID:       a.TrackID,
		Title:         a.Title,
		Description:   a.Description,
		Order:         a.Order,
		DeadlineHours: a.DeadlineHours,
		CreatedAt:     a.CreatedAt.Format(time.RFC3339),
	}
}
