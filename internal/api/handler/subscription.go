package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/khiandraj/Finance-Tracker/internal/api/middleware"
	"github.com/khiandraj/Finance-Tracker/internal/model/dto"
	"github.com/khiandraj/Finance-Tracker/internal/pkg/response"
	"github.com/khiandraj/Finance-Tracker/internal/pkg/schedule"
	"github.com/khiandraj/Finance-Tracker/internal/service"
)

type SubscriptionHandler struct {
	subscriptionService *service.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
	}
}

// Create 创建订阅
// POST /api/v1/subscriptions
func (h *SubscriptionHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	sub, err := h.subscriptionService.AddSubscription(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrNonPositiveAmount),
			errors.Is(err, schedule.ErrInvalidFrequency):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "订阅创建成功", sub)
}

// List 查询订阅列表
// GET /api/v1/subscriptions?active=true
func (h *SubscriptionHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	onlyActive := c.Query("active") == "true"

	subs, err := h.subscriptionService.ListSubscriptions(c.Request.Context(), userID, onlyActive)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, subs)
}

// Get 查询单个订阅
// GET /api/v1/subscriptions/:id
func (h *SubscriptionHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的订阅 ID")
		return
	}

	sub, err := h.subscriptionService.GetSubscription(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrSubscriptionNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	// 只能查看自己的订阅
	if sub.UserID != userID {
		response.PermissionError(c, "")
		return
	}

	response.Success(c, sub)
}

// Cancel 取消订阅
// DELETE /api/v1/subscriptions/:id
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的订阅 ID")
		return
	}

	sub, err := h.subscriptionService.GetSubscription(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrSubscriptionNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}
	if sub.UserID != userID {
		response.PermissionError(c, "")
		return
	}

	if _, err := h.subscriptionService.CancelSubscription(c.Request.Context(), id); err != nil {
		response.ServerError(c, "")
		return
	}

	// 重复取消视为成功，取消是终态
	response.SuccessWithMessage(c, "订阅已取消", nil)
}

// ProcessDue 手动触发一轮到期扣费扫描
// POST /api/v1/subscriptions/process-due
func (h *SubscriptionHandler) ProcessDue(c *gin.Context) {
	if _, ok := middleware.GetUserID(c); !ok {
		response.AuthError(c, "")
		return
	}

	processed, err := h.subscriptionService.ProcessDueSubscriptions(c.Request.Context(), time.Now().UTC())
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, dto.ProcessDueResponse{Processed: processed})
}
