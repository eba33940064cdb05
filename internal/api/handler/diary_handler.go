package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/DanilPOW/MonthProject/internal/dto"
	"github.com/DanilPOW/MonthProject/internal/service"
	"github.com/DanilPOW/MonthProject/pkg/response"
)

// DiaryHandler 学习日记模块 HTTP 处理器
type DiaryHandler struct {
	diarySvc service.DiaryService
}

// NewDiaryHandler 创建 DiaryHandler
func NewDiaryHandler(diarySvc service.DiaryService) *DiaryHandler {
	return &DiaryHandler{diarySvc: diarySvc}
}

// Create 写学习日记
// POST /api/v1/assignments/:id/diary
func (h *DiaryHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateDiaryEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.diarySvc.Create(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		h.handleDiaryError(c, err)
		return
	}

	response.Created(c, result)
}

// List 某作业的全部日记
// GET /api/v1/assignments/:id/diary
func (h *DiaryHandler) List(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.diarySvc.ListByAssignment(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.handleDiaryError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *DiaryHandler) handleDiaryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAssignmentNotFound):
		response.NotFound(c, 13001, "作业不存在")
	case errors.Is(err, service.ErrNotEnrolled):
		response.Forbidden(c, 15001, "未报名该训练营")
	default:
		response.InternalError(c)
	}
}
