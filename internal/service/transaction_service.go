package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/khiandraj/Finance-Tracker/internal/model"
	"github.com/khiandraj/Finance-Tracker/internal/repository"
)

var ErrDuplicateTransaction = errors.New("该账期的流水已存在")

// TransactionRecorder 订阅引擎依赖的流水记录接口。
// reference 是幂等键，同一逻辑扣费事件重复调用必须安全。
type TransactionRecorder interface {
	RecordTransaction(ctx context.Context, userID int64, amount decimal.Decimal, currency string, whenUtc time.Time, description, reference string) error
}

type TransactionService struct {
	txnRepo *repository.TransactionRepository
}

func NewTransactionService(txnRepo *repository.TransactionRepository) *TransactionService {
	return &TransactionService{
		txnRepo: txnRepo,
	}
}

// RecordTransaction 写入一条扣费流水。
// 同一 reference 的重复写入返回 ErrDuplicateTransaction，调用方视为已记录。
func (s *TransactionService) RecordTransaction(ctx context.Context, userID int64, amount decimal.Decimal, currency string, whenUtc time.Time, description, reference string) error {
	txn := &model.Transaction{
		UserID:       userID,
		Amount:       amount,
		Currency:     currency,
		TimestampUtc: whenUtc,
		Description:  description,
		Reference:    reference,
	}

	if err := s.txnRepo.Create(ctx, txn); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateTransaction
		}
		return err
	}
	return nil
}

// ListTransactions 查询用户流水（按时间倒序分页）
func (s *TransactionService) ListTransactions(ctx context.Context, userID int64, page, pageSize int) ([]model.Transaction, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.txnRepo.ListByUser(ctx, userID, page, pageSize)
}
