package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/DanilPOW/MonthProject/internal/dto"
	"github.com/DanilPOW/MonthProject/internal/notify"
	"github.com/DanilPOW/MonthProject/internal/repository"
)

// NotificationService 截止时间判定与通知事实产出
//
// 三条互相独立的只读策略：
//   - 截止预警：距训练营级截止 0~2 天（锚定 started_at，天粒度）
//   - 评审阶段开始：now 已越过 started_at + deadline_hours，
//     且学员已提交但评审配额未完成
//   - 80% 阈值提醒：now ≥ submitted_at + 0.8·deadline_hours（锚定个人提交时间），
//     经 deadline_notification_sent 单向闩锁保证只触发一次
//
// 本服务不做投递，只把成立的事实交给注入的 notify.Dispatcher；
// Sweep 由外部按需调用，可与报名/评审操作并发执行。
type NotificationService interface {
	ListForUser(ctx context.Context, userID string) ([]dto.NotificationResponse, error)
	SweepDeadlines(ctx context.Context) (int, error)
}

type notificationService struct {
	repo       *repository.Repository
	dispatcher notify.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// NewNotificationService 创建 NotificationService 实例
func NewNotificationService(repo *repository.Repository, dispatcher notify.Dispatcher, logger *zap.Logger) NotificationService {
	return &notificationService{
		repo:       repo,
		dispatcher: dispatcher,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// ────────────────────── ListForUser ──────────────────────

func (s *notificationService) ListForUser(ctx context.Context, userID string) ([]dto.NotificationResponse, error) {
	enrollments, err := s.repo.Enrollment.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询报名记录失败", zap.Error(err))
		return nil, err
	}

	now := s.now()
	notifications := make([]dto.NotificationResponse, 0)

	for _, e := range enrollments {
		track, err := s.repo.Track.GetByID(ctx, e.TrackID)
		if err != nil {
			s.logger.Error("查询训练营失败", zap.String("id", e.TrackID), zap.Error(err))
			return nil, err
		}
		// 未激活的训练营没有任何截止时间
		if track.StartedAt == nil {
			continue
		}

		assignments, err := s.repo.Assignment.ListByTrack(ctx, track.TrackID)
		if err != nil {
			s.logger.Error("查询作业列表失败", zap.Error(err))
			return nil, err
		}

		for i := range assignments {
			a := &assignments[i]
			deadline := trackDeadline(*track.StartedAt, a.DeadlineHours)

			if days, ok := deadlineWarningDays(now, deadline); ok {
				d := days
				notifications = append(notifications, dto.NotificationResponse{
					Type:         dto.NotificationDeadlineWarning,
					Message:      fmt.Sprintf("作业「%s」还有 %d 天截止", a.Title, days),
					TrackID:      track.TrackID,
					AssignmentID: a.AssignmentID,
					DaysLeft:     &d,
				})
			}

			if !reviewPhaseStarted(now, deadline) {
				continue
			}
			// 未提交则没有评审义务
			if _, err := s.repo.Submission.GetByUserAndAssignment(ctx, userID, a.AssignmentID); err != nil {
				continue
			}
			reviewCount, err := s.repo.Review.CountByReviewerAndAssignment(ctx, userID, a.AssignmentID)
			if err != nil {
				s.logger.Error("统计评审数失败", zap.Error(err))
				return nil, err
			}
			if reviewCount < int64(track.ReviewsPerUser) {
				notifications = append(notifications, dto.NotificationResponse{
					Type:         dto.NotificationReviewPhaseStart,
					Message:      fmt.Sprintf("作业「%s」的代码评审阶段已开始", a.Title),
					TrackID:      track.TrackID,
					AssignmentID: a.AssignmentID,
				})
			}
		}
	}

	return notifications, nil
}

// ────────────────────── SweepDeadlines ──────────────────────

// SweepDeadlines 扫描未提醒的提交，对时限已用 80% 的提交置位并投递。
// 闩锁在存储层以 UPDATE ... WHERE sent = false 完成，
// 并发 Sweep 对同一提交只会有一方置位成功，不会重复投递。
func (s *notificationService) SweepDeadlines(ctx context.Context) (int, error) {
	submissions, err := s.repo.Submission.ListUnnotified(ctx)
	if err != nil {
		s.logger.Error("查询未提醒提交失败", zap.Error(err))
		return 0, err
	}

	now := s.now()
	fired := 0
	for i := range submissions {
		sub := &submissions[i]
		if sub.Assignment == nil {
			continue
		}
		if !notificationDue(now, sub.SubmittedAt, sub.Assignment.DeadlineHours) {
			continue
		}

		latched, err := s.repo.Submission.MarkNotified(ctx, sub.SubmissionID)
		if err != nil {
			s.logger.Error("置位截止提醒失败", zap.String("submission_id", sub.SubmissionID), zap.Error(err))
			return fired, err
		}
		if !latched {
			continue
		}

		fired++
		event := notify.Event{
			UserID:       sub.UserID,
			Type:         dto.NotificationDeadlineThreshold,
			Message:      fmt.Sprintf("作业「%s」的评审时限已过 80%%", sub.Assignment.Title),
			AssignmentID: sub.AssignmentID,
		}
		if err := s.dispatcher.Push(ctx, event); err != nil {
			// 投递失败不回滚闩锁，事实已成立
			s.logger.Warn("投递通知失败", zap.String("user_id", sub.UserID), zap.Error(err))
		}
	}

	return fired, nil
}

// ── 截止时间判定（纯函数） ──

// trackDeadline 训练营级截止：激活时间 + 作业时限
func trackDeadline(startedAt time.Time, deadlineHours int) time.Time {
	return startedAt.Add(time.Duration(deadlineHours) * time.Hour)
}

// deadlineWarningDays 距截止剩余天数在 [0, 2] 内时返回 (剩余天数, true)
func deadlineWarningDays(now, deadline time.Time) (int, bool) {
	days := int(deadline.Sub(now).Hours() / 24)
	if now.After(deadline) {
		return 0, false
	}
	if days < 0 || days > 2 {
		return 0, false
	}
	return days, true
}

// reviewPhaseStarted 训练营级截止已过
func reviewPhaseStarted(now, deadline time.Time) bool {
	return now.After(deadline)
}

// notificationDue 个人提交时限已用 80%
func notificationDue(now, submittedAt time.Time, deadlineHours int) bool {
	threshold := submittedAt.Add(time.Duration(float64(deadlineHours) * 0.8 * float64(time.Hour)))
	return !now.Before(threshold)
}
