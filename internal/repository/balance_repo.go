package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/khiandraj/Finance-Tracker/internal/model"
)

type BalanceRepository struct {
	db *gorm.DB
}

func NewBalanceRepository(db *gorm.DB) *BalanceRepository {
	return &BalanceRepository{db: db}
}

func (r *BalanceRepository) GetByUserID(ctx context.Context, userID int64) (*model.BalanceRecord, error) {
	var record model.BalanceRecord
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// EnsureRecord 确保用户有余额记录，没有则插入零余额记录。
// 依赖 user_id 唯一索引 + ON CONFLICT DO NOTHING，并发下不会产生重复记录。
func (r *BalanceRepository) EnsureRecord(ctx context.Context, userID int64, now time.Time) error {
	record := &model.BalanceRecord{
		UserID:      userID,
		Balance:     decimal.Zero,
		LastUpdated: now,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(record).Error
}

// Increment 原子加余额，避免读改写丢失更新
func (r *BalanceRepository) Increment(ctx context.Context, userID int64, amount decimal.Decimal, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.BalanceRecord{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"balance":      gorm.Expr("balance + ?", amount),
			"last_updated": now,
		})
	return result.RowsAffected, result.Error
}

// DecrementIfSufficient 余额充足时原子减余额，余额不足时不修改任何状态。
// 返回受影响行数，0 表示余额不足（记录已由 EnsureRecord 保证存在）。
func (r *BalanceRepository) DecrementIfSufficient(ctx context.Context, userID int64, amount decimal.Decimal, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.BalanceRecord{}).
		Where("user_id = ? AND balance >= ?", userID, amount).
		Updates(map[string]interface{}{
			"balance":      gorm.Expr("balance - ?", amount),
			"last_updated": now,
		})
	return result.RowsAffected, result.Error
}

func (r *BalanceRepository) DeleteByUserID(ctx context.Context, userID int64) (bool, error) {
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.BalanceRecord{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
