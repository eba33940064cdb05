package handler

import "github.com/DanilPOW/MonthProject/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth         *AuthHandler
	Track        *TrackHandler
	Assignment   *AssignmentHandler
	Review       *ReviewHandler
	Notification *NotificationHandler
	Diary        *DiaryHandler
	Export       *ExportHandler
	Calendar     *CalendarHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		Track:        NewTrackHandler(svc.Track),
		Assignment:   NewAssignmentHandler(svc.Assignment),
		Review:       NewReviewHandler(svc.Review),
		Notification: NewNotificationHandler(svc.Notification),
		Diary:        NewDiaryHandler(svc.Diary),
		Export:       NewExportHandler(svc.Export),
		Calendar:     NewCalendarHandler(svc.Calendar),
	}
}
