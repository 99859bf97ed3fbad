package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/khiandraj/Finance-Tracker/internal/model"
)

// TestUser 创建测试用户
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	user := &model.User{
		Username:     fmt.Sprintf("testuser_%d", time.Now().UnixNano()%1000000),
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuvwxyz123456", // bcrypt hash placeholder
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithUsername 设置用户名
func WithUsername(username string) func(*model.User) {
	return func(u *model.User) {
		u.Username = username
	}
}

// TestBalance 创建测试余额记录
func TestBalance(t *testing.T, db *gorm.DB, userID int64, balance decimal.Decimal) *model.BalanceRecord {
	t.Helper()

	record := &model.BalanceRecord{
		UserID:      userID,
		Balance:     balance,
		LastUpdated: time.Now().UTC(),
	}

	if err := db.Create(record).Error; err != nil {
		t.Fatalf("Failed to create test balance: %v", err)
	}

	return record
}

// TestSubscription 创建测试订阅
func TestSubscription(t *testing.T, db *gorm.DB, userID int64, opts ...func(*model.Subscription)) *model.Subscription {
	t.Helper()

	sub := &model.Subscription{
		UserID:         userID,
		Name:           fmt.Sprintf("Test Subscription %d", time.Now().UnixNano()%10000),
		Amount:         decimal.NewFromFloat(9.99),
		Currency:       "USD",
		Frequency:      model.FrequencyMonthly,
		NextPaymentUtc: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		IsActive:       true,
	}

	for _, opt := range opts {
		opt(sub)
	}

	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("Failed to create test subscription: %v", err)
	}

	return sub
}

// WithName 设置订阅名称
func WithName(name string) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.Name = name
	}
}

// WithAmount 设置订阅金额
func WithAmount(amount decimal.Decimal) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.Amount = amount
	}
}

// WithFrequency 设置扣费周期
func WithFrequency(frequency model.Frequency) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.Frequency = frequency
	}
}

// WithNextPayment 设置下次扣费时间
func WithNextPayment(at time.Time) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.NextPaymentUtc = at
	}
}

// WithActive 设置是否活跃
func WithActive(active bool) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.IsActive = active
	}
}
