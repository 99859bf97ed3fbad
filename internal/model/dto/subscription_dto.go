package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateSubscriptionRequest struct {
	Name           string          `json:"name" binding:"required,max=100"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	Currency       string          `json:"currency"`
	Frequency      string          `json:"frequency" binding:"required"`
	NextPaymentUtc *time.Time      `json:"next_payment_utc"`
	Notes          string          `json:"notes"`
}

type ProcessDueResponse struct {
	Processed int `json:"processed"`
}
