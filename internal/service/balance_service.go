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

var (
	ErrInvalidAmount     = errors.New("金额必须大于 0")
	ErrInvalidUserID     = errors.New("用户 ID 无效")
	ErrBalanceNotFound   = errors.New("余额记录不存在")
	ErrInsufficientFunds = errors.New("余额不足")
)

type BalanceService struct {
	balanceRepo *repository.BalanceRepository
}

func NewBalanceService(balanceRepo *repository.BalanceRepository) *BalanceService {
	return &BalanceService{
		balanceRepo: balanceRepo,
	}
}

// GetBalance 查询用户余额，无记录时返回 ErrBalanceNotFound
func (s *BalanceService) GetBalance(ctx context.Context, userID int64) (*model.BalanceRecord, error) {
	if userID <= 0 {
		return nil, ErrInvalidUserID
	}

	record, err := s.balanceRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBalanceNotFound
		}
		return nil, err
	}
	return record, nil
}

// Credit 充值。首次操作自动创建零余额记录，增量在数据库侧原子执行。
// 不允许零或负数充值，冲正走管理流程而不是负数充值。
func (s *BalanceService) Credit(ctx context.Context, userID int64, amount decimal.Decimal) (*model.BalanceRecord, error) {
	if userID <= 0 {
		return nil, ErrInvalidUserID
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	now := time.Now().UTC()
	if err := s.balanceRepo.EnsureRecord(ctx, userID, now); err != nil {
		return nil, err
	}

	if _, err := s.balanceRepo.Increment(ctx, userID, amount, now); err != nil {
		return nil, err
	}

	return s.balanceRepo.GetByUserID(ctx, userID)
}

// Debit 扣款。余额不足时返回 ErrInsufficientFunds 且不产生任何余额变更。
func (s *BalanceService) Debit(ctx context.Context, userID int64, amount decimal.Decimal) (*model.BalanceRecord, error) {
	if userID <= 0 {
		return nil, ErrInvalidUserID
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	now := time.Now().UTC()
	if err := s.balanceRepo.EnsureRecord(ctx, userID, now); err != nil {
		return nil, err
	}

	rows, err := s.balanceRepo.DecrementIfSufficient(ctx, userID, amount, now)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrInsufficientFunds
	}

	return s.balanceRepo.GetByUserID(ctx, userID)
}

// DeleteBalanceRecord 删除余额记录（管理操作），返回记录是否存在
func (s *BalanceService) DeleteBalanceRecord(ctx context.Context, userID int64) (bool, error) {
	if userID <= 0 {
		return false, ErrInvalidUserID
	}
	return s.balanceRepo.DeleteByUserID(ctx, userID)
}
