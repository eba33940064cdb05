package service

import (
	"go.uber.org/zap"

	"github.com/DanilPOW/MonthProject/config"
	"github.com/DanilPOW/MonthProject/internal/notify"
	"github.com/DanilPOW/MonthProject/internal/repository"
	"github.com/DanilPOW/MonthProject/pkg/jwt"
	"github.com/DanilPOW/MonthProject/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth         AuthService
	Track        TrackService
	Assignment   AssignmentService
	Review       ReviewService
	Notification NotificationService
	Diary        DiaryService
	Export       ExportService
	Calendar     CalendarService
}

// NewService 创建 Service 聚合
// rdb 允许为 nil（Redis 降级），dispatcher 不允许为 nil
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	dispatcher notify.Dispatcher,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:         NewAuthService(&cfg.Auth, repo, jwtMgr, rdb, logger),
		Track:        NewTrackService(repo, logger),
		Assignment:   NewAssignmentService(repo, logger),
		Review:       NewReviewService(repo, logger),
		Notification: NewNotificationService(repo, dispatcher, logger),
		Diary:        NewDiaryService(repo, logger),
		Export:       NewExportService(repo, logger),
		Calendar:     NewCalendarService(repo, logger),
	}
}
