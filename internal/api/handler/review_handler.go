package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/DanilPOW/MonthProject/internal/dto"
	"github.com/DanilPOW/MonthProject/internal/service"
	"github.com/DanilPOW/MonthProject/pkg/response"
)

// ReviewHandler 代码评审模块 HTTP 处理器
type ReviewHandler struct {
	reviewSvc service.ReviewService
}

// NewReviewHandler 创建 ReviewHandler
func NewReviewHandler(reviewSvc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewSvc: reviewSvc}
}

// Pick 随机匹配一条待评审提交
// POST /api/v1/assignments/:id/reviews/pick
func (h *ReviewHandler) Pick(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.reviewSvc.PickSubmission(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.handleReviewError(c, err)
		return
	}

	response.OK(c, result)
}

// Create 提交评审
// POST /api/v1/submissions/:id/reviews
func (h *ReviewHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.reviewSvc.Create(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		h.handleReviewError(c, err)
		return
	}

	response.Created(c, result)
}

func (h *ReviewHandler) handleReviewError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAssignmentNotFound):
		response.NotFound(c, 13001, "作业不存在")
	case errors.Is(err, service.ErrSubmissionNotFound):
		response.NotFound(c, 14001, "提交记录不存在")
	case errors.Is(err, service.ErrSelfReview):
		response.BadRequest(c, 14002, "不能评审自己的提交")
	case errors.Is(err, service.ErrDuplicateReview):
		response.Conflict(c, 14003, "已评审过该提交")
	case errors.Is(err, service.ErrReviewQuotaExceeded):
		response.Conflict(c, 14004, "评审配额已完成")
	case errors.Is(err, service.ErrNothingToReview):
		response.NotFound(c, 14005, "当前没有可评审的提交")
	default:
		response.InternalError(c)
	}
}
