package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/DanilPOW/MonthProject/internal/dto"
	"github.com/DanilPOW/MonthProject/internal/service"
	"github.com/DanilPOW/MonthProject/pkg/response"
)

// TrackHandler 训练营模块 HTTP 处理器
type TrackHandler struct {
	trackSvc service.TrackService
}

// NewTrackHandler 创建 TrackHandler
func NewTrackHandler(trackSvc service.TrackService) *TrackHandler {
	return &TrackHandler{trackSvc: trackSvc}
}

// Create 创建训练营（含作业清单）
// POST /api/v1/tracks
func (h *TrackHandler) Create(c *gin.Context) {
	var req dto.CreateTrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.trackSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleTrackError(c, err)
		return
	}

	response.Created(c, result)
}

// List 训练营列表
// GET /api/v1/tracks?offset=0&limit=20
func (h *TrackHandler) List(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	result, err := h.trackSvc.List(c.Request.Context(), offset, limit)
	if err != nil {
		h.handleTrackError(c, err)
		return
	}

	response.OK(c, result)
}

// ListMy 我报名的训练营
// GET /api/v1/tracks/my
func (h *TrackHandler) ListMy(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.trackSvc.ListMy(c.Request.Context(), userID)
	if err != nil {
		h.handleTrackError(c, err)
		return
	}

	response.OK(c, result)
}

// Get 训练营详情
// GET /api/v1/tracks/:id
func (h *TrackHandler) Get(c *gin.Context) {
	result, err := h.trackSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleTrackError(c, err)
		return
	}

	response.OK(c, result)
}

// Enroll 报名训练营
// POST /api/v1/tracks/:id/enroll
func (h *TrackHandler) Enroll(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.trackSvc.Enroll(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.handleTrackError(c, err)
		return
	}

	response.Created(c, result)
}

// Unenroll 退出训练营
// DELETE /api/v1/tracks/:id/enroll
func (h *TrackHandler) Unenroll(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.trackSvc.Unenroll(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.handleTrackError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *TrackHandler) handleTrackError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTrackNotFound):
		response.NotFound(c, 12001, "训练营不存在")
	case errors.Is(err, service.ErrAlreadyEnrolled):
		response.Conflict(c, 12002, "已报名该训练营")
	case errors.Is(err, service.ErrTrackLocked):
		response.Conflict(c, 12003, "训练营已锁定，不可报名或退出")
	case errors.Is(err, service.ErrNotEnrolled):
		response.BadRequest(c, 12004, "未报名该训练营")
	default:
		response.InternalError(c)
	}
}
