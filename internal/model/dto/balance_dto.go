package dto

import (
	"github.com/shopspring/decimal"
)

type BalanceMutationRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

type BalanceResponse struct {
	UserID      int64           `json:"user_id"`
	Balance     decimal.Decimal `json:"balance"`
	LastUpdated string          `json:"last_updated"`
}
