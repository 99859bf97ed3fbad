package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequency 订阅扣费周期
type Frequency string

const (
	FrequencyDaily        Frequency = "daily"
	FrequencyWeekly       Frequency = "weekly"
	FrequencyBiWeekly     Frequency = "biweekly"
	FrequencyMonthly      Frequency = "monthly"
	FrequencyQuarterly    Frequency = "quarterly"
	FrequencySemiAnnually Frequency = "semiannually"
	FrequencyAnnually     Frequency = "annually"
)

type Subscription struct {
	ID             int64           `gorm:"primaryKey" json:"id"`
	UserID         int64           `gorm:"not null;index:idx_sub_user_active" json:"user_id"`
	Name           string          `gorm:"size:100;not null" json:"name"`
	Amount         decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"amount"`
	Currency       string          `gorm:"size:10;default:USD" json:"currency"`
	Frequency      Frequency       `gorm:"size:20;not null" json:"frequency"`
	NextPaymentUtc time.Time       `gorm:"not null;index:idx_sub_active_due,priority:2" json:"next_payment_utc"`
	IsActive       bool            `gorm:"not null;index:idx_sub_user_active;index:idx_sub_active_due,priority:1" json:"is_active"`
	Notes          string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
