package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/khiandraj/Finance-Tracker/internal/model"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(ctx context.Context, sub *model.Subscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *SubscriptionRepository) GetByID(ctx context.Context, id int64) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepository) ListByUser(ctx context.Context, userID int64, onlyActive bool) ([]model.Subscription, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}

	var subs []model.Subscription
	if err := query.Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// ListDue 查询到期的活跃订阅
func (r *SubscriptionRepository) ListDue(ctx context.Context, asOfUtc time.Time) ([]model.Subscription, error) {
	var subs []model.Subscription
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND next_payment_utc <= ?", true, asOfUtc).
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

// AdvanceNextPayment 条件推进下次扣费时间。
// 条件带上推进前的 next_payment_utc，并发扫描下只有一个能成功（乐观锁）。
func (r *SubscriptionRepository) AdvanceNextPayment(ctx context.Context, id int64, prevDue, nextDue time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("id = ? AND is_active = ? AND next_payment_utc = ?", id, true, prevDue).
		Update("next_payment_utc", nextDue)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Cancel 软删除订阅，已取消的订阅不会重复生效
func (r *SubscriptionRepository) Cancel(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
