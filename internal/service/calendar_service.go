package service

import (
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"github.com/DanilPOW/MonthProject/internal/repository"
)

// CalendarService 日历订阅服务接口
//
// 面向已激活训练营生成个人截止时间 .ics 订阅：
// 每个作业一个 VEVENT，时间为训练营级截止（started_at + deadline_hours）
type CalendarService interface {
	DeadlineFeed(ctx context.Context, userID string) (string, error)
}

type calendarService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCalendarService 创建 CalendarService 实例
func NewCalendarService(repo *repository.Repository, logger *zap.Logger) CalendarService {
	return &calendarService{repo: repo, logger: logger}
}

func (s *calendarService) DeadlineFeed(ctx context.Context, userID string) (string, error) {
	enrollments, err := s.repo.Enrollment.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询报名记录失败", zap.Error(err))
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//MonthProject//Deadline Feed//CN")
	cal.SetName("作业截止时间")

	for _, e := range enrollments {
		track, err := s.repo.Track.GetByID(ctx, e.TrackID)
		if err != nil {
			s.logger.Error("查询训练营失败", zap.String("id", e.TrackID), zap.Error(err))
			return "", err
		}
		// 未激活的训练营没有截止时间
		if track.StartedAt == nil {
			continue
		}

		assignments, err := s.repo.Assignment.ListByTrack(ctx, track.TrackID)
		if err != nil {
			s.logger.Error("查询作业列表失败", zap.Error(err))
			return "", err
		}

		for i := range assignments {
			a := &assignments[i]
			deadline := trackDeadline(*track.StartedAt, a.DeadlineHours)

			event := cal.AddEvent(fmt.Sprintf("%s-%s@month-project", a.AssignmentID, userID))
			event.SetCreatedTime(time.Now().UTC())
			event.SetDtStampTime(time.Now().UTC())
			event.SetStartAt(deadline)
			event.SetEndAt(deadline.Add(time.Hour))
			event.SetSummary(fmt.Sprintf("截止：%s", a.Title))
			event.SetDescription(fmt.Sprintf("训练营「%s」作业「%s」的提交截止时间", track.Title, a.Title))
		}
	}

	return cal.Serialize(), nil
}
