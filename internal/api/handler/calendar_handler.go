package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DanilPOW/MonthProject/internal/service"
	"github.com/DanilPOW/MonthProject/pkg/response"
)

// CalendarHandler 日历订阅模块 HTTP 处理器
type CalendarHandler struct {
	calendarSvc service.CalendarService
}

// NewCalendarHandler 创建 CalendarHandler
func NewCalendarHandler(calendarSvc service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarSvc: calendarSvc}
}

// DeadlineFeed 个人作业截止时间 .ics 订阅
// GET /api/v1/calendar/deadlines.ics
func (h *CalendarHandler) DeadlineFeed(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	feed, err := h.calendarSvc.DeadlineFeed(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=deadlines.ics")
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(feed))
}
