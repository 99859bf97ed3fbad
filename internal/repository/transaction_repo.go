package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/khiandraj/Finance-Tracker/internal/model"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create 写入一条流水。reference 唯一索引冲突时返回 gorm.ErrDuplicatedKey，
// 调用方据此识别同一账期的重复扣费。
func (r *TransactionRepository) Create(ctx context.Context, txn *model.Transaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *TransactionRepository) ListByUser(ctx context.Context, userID int64, page, pageSize int) ([]model.Transaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Transaction{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var txns []model.Transaction
	err := query.Order("timestamp_utc DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&txns).Error
	if err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}
