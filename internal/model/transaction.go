package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction 扣费流水，只追加不修改。
// Reference 是幂等键（同一订阅同一账期只会有一条），避免重复扣费。
type Transaction struct {
	ID           int64           `gorm:"primaryKey" json:"id"`
	UserID       int64           `gorm:"not null;index" json:"user_id"`
	Amount       decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"amount"`
	Currency     string          `gorm:"size:10;default:USD" json:"currency"`
	TimestampUtc time.Time       `gorm:"not null" json:"timestamp_utc"`
	Description  string          `gorm:"size:255" json:"description"`
	Reference    string          `gorm:"size:100;uniqueIndex" json:"reference"`
	CreatedAt    time.Time       `json:"created_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}
