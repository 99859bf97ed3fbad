package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/khiandraj/Finance-Tracker/internal/api/middleware"
	"github.com/khiandraj/Finance-Tracker/internal/pkg/response"
	"github.com/khiandraj/Finance-Tracker/internal/service"
)

type TransactionHandler struct {
	transactionService *service.TransactionService
}

func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// List 查询扣费流水（按时间倒序分页）
// GET /api/v1/transactions?page=1&page_size=20
func (h *TransactionHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	txns, total, err := h.transactionService.ListTransactions(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, txns)
}
