package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/khiandraj/Finance-Tracker/internal/api/middleware"
	"github.com/khiandraj/Finance-Tracker/internal/model"
	"github.com/khiandraj/Finance-Tracker/internal/model/dto"
	"github.com/khiandraj/Finance-Tracker/internal/pkg/response"
	"github.com/khiandraj/Finance-Tracker/internal/service"
)

type BalanceHandler struct {
	balanceService *service.BalanceService
}

func NewBalanceHandler(balanceService *service.BalanceService) *BalanceHandler {
	return &BalanceHandler{
		balanceService: balanceService,
	}
}

func toBalanceResponse(record *model.BalanceRecord) *dto.BalanceResponse {
	return &dto.BalanceResponse{
		UserID:      record.UserID,
		Balance:     record.Balance,
		LastUpdated: record.LastUpdated.UTC().Format(time.RFC3339),
	}
}

// Get 查询余额
// GET /api/v1/balance
func (h *BalanceHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	record, err := h.balanceService.GetBalance(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrBalanceNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, toBalanceResponse(record))
}

// Credit 充值
// POST /api/v1/balance/credit
func (h *BalanceHandler) Credit(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.BalanceMutationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	record, err := h.balanceService.Credit(c.Request.Context(), userID, req.Amount)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAmount) {
			response.ParamError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, toBalanceResponse(record))
}

// Debit 扣款
// POST /api/v1/balance/debit
func (h *BalanceHandler) Debit(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.BalanceMutationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	record, err := h.balanceService.Debit(c.Request.Context(), userID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAmount):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrInsufficientFunds):
			response.InsufficientFundsError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, toBalanceResponse(record))
}

// Delete 删除余额记录
// DELETE /api/v1/balance
func (h *BalanceHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	deleted, err := h.balanceService.DeleteBalanceRecord(c.Request.Context(), userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	if !deleted {
		response.NotFoundError(c, "")
		return
	}

	response.Success(c, nil)
}
