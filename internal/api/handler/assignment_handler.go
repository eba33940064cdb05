package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/DanilPOW/MonthProject/internal/dto"
	"github.com/DanilPOW/MonthProject/internal/service"
	"github.com/DanilPOW/MonthProject/pkg/response"
)

// AssignmentHandler 作业模块 HTTP 处理器
type AssignmentHandler struct {
	assignmentSvc service.AssignmentService
}

// NewAssignmentHandler 创建 AssignmentHandler
func NewAssignmentHandler(assignmentSvc service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentSvc: assignmentSvc}
}

// ListWithStatus 训练营作业列表（含当前用户进度）
// GET /api/v1/tracks/:id/assignments
func (h *AssignmentHandler) ListWithStatus(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.assignmentSvc.ListWithStatus(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, result)
}

// Current 当前作业（第一个未完成的作业）
// GET /api/v1/tracks/:id/assignments/current
func (h *AssignmentHandler) Current(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.assignmentSvc.Current(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, result)
}

// Submit 提交作业
// POST /api/v1/assignments/:id/submissions
func (h *AssignmentHandler) Submit(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.assignmentSvc.Submit(c.Request.Context(), c.Param("id"), userID, &req)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.Created(c, result)
}

func (h *AssignmentHandler) handleAssignmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTrackNotFound):
		response.NotFound(c, 12001, "训练营不存在")
	case errors.Is(err, service.ErrNotEnrolled):
		response.Forbidden(c, 12004, "未报名该训练营")
	case errors.Is(err, service.ErrAssignmentNotFound):
		response.NotFound(c, 13001, "作业不存在")
	case errors.Is(err, service.ErrTrackNotActive):
		response.BadRequest(c, 13002, "训练营尚未开始")
	case errors.Is(err, service.ErrDuplicateSubmission):
		response.Conflict(c, 13003, "该作业已提交过")
	case errors.Is(err, service.ErrNoCurrentAssignment):
		response.NotFound(c, 13004, "没有可做的作业")
	default:
		response.InternalError(c)
	}
}
