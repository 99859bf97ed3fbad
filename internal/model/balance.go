package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceRecord 用户余额记录，每个用户最多一条（user_id 唯一索引）
type BalanceRecord struct {
	ID          int64           `gorm:"primaryKey" json:"id"`
	UserID      int64           `gorm:"uniqueIndex;not null" json:"user_id"`
	Balance     decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"balance"`
	LastUpdated time.Time       `gorm:"not null" json:"last_updated"`
}

func (BalanceRecord) TableName() string {
	return "balances"
}
