package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khiandraj/Finance-Tracker/internal/repository"
	"github.com/khiandraj/Finance-Tracker/internal/testutil"
)

func setupBalanceService(t *testing.T) (*BalanceService, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	balanceRepo := repository.NewBalanceRepository(db)
	service := NewBalanceService(balanceRepo)

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}

	return service, cleanup
}

func TestBalanceService_GetBalance_NotFound(t *testing.T) {
	service, cleanup := setupBalanceService(t)
	defer cleanup()

	_, err := service.GetBalance(context.Background(), 1)
	assert.Equal(t, ErrBalanceNotFound, err)
}

func TestBalanceService_Credit_CreatesRecord(t *testing.T) {
	service, cleanup := setupBalanceService(t)
	defer cleanup()

	ctx := context.Background()

	// 首次充值自动创建零余额记录再加钱
	record, err := service.Credit(ctx, 1, decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.True(t, record.Balance.Equal(decimal.NewFromInt(100)),
		"balance = %s", record.Balance)
	assert.Equal(t, int64(1), record.UserID)
	assert.False(t, record.LastUpdated.IsZero())
}

func TestBalanceService_Credit_Accumulates(t *testing.T) {
	service, cleanup := setupBalanceService(t)
	defer cleanup()

	ctx := context.Background()

	_, err := service.Credit(ctx, 1, decimal.NewFromInt(100))
	require.NoError(t, err)

	record, err := service.Credit(ctx, 1, decimal.NewFromFloat(15.99))
	require.NoError(t, err)
	assert.True(t, record.Balance.Equal(decimal.NewFromFloat(115.99)),
		"balance = %s", record.Balance)
}

func TestBalanceService_Credit_RejectsNonPositive(t *testing.T) {
	service, cleanup := setupBalanceService(t)
	defer cleanup()

	ctx := context.Background()

	_, err := service.Credit(ctx, 1, decimal.Zero)
	assert.Equal(t, ErrInvalidAmount, err)

	_, err = service.Credit(ctx, 1, decimal.NewFromInt(-10))
	assert.Equal(t, ErrInvalidAmount, err)

	// 非法请求不应创建记录
	_, err = service.GetBalance(ctx, 1)
	assert.Equal(t, ErrBalanceNotFound, err)
}

func TestBalanceService_Credit_InvalidUserID(t *testing.T) {
	service, cleanup := setupBalanceService(t)
	defer cleanup()

	_, err := service.Credit(context.Background(), 0, decimal.NewFromInt(10))
	assert.Equal(t, ErrInvalidUserID, err)
}

func TestBalanceService_Debit(t *testing.T) {
	service, cleanup := setupBalanceService(t)
	defer cleanup()

	ctx := context.Background()

	_, err := service.Credit(ctx, 1, decimal.NewFromInt(100))
	require.NoError(t, err)

	record, err := service.Debit(ctx, 1, decimal.NewFromInt(30))
	require.NoError(t, err)
	assert.True(t, record.Balance.Equal(decimal.NewFromInt(70)),
		"balance = %s", record.Balance)
}

func TestBalanceService_Debit_Insufficient(t *testing.T) {
	service, cleanup := setupBalanceService(t)
	defer cleanup()

	ctx := context.Background()

	// 完整场景：充 100，扣 30，再扣 1000 失败，余额保持 70
	_, err := service.Credit(ctx, 1, decimal.NewFromInt(100))
	require.NoError(t, err)

	_, err = service.Debit(ctx, 1, decimal.NewFromInt(30))
	require.NoError(t, err)

	_, err = service.Debit(ctx, 1, decimal.NewFromInt(1000))
	assert.Equal(t, ErrInsufficientFunds, err)

	record, err := service.GetBalance(ctx, 1)
	require.NoError(t, err)
	assert.True(t, record.Balance.Equal(decimal.NewFromInt(70)),
		"balance = %s", record.Balance)
}

func TestBalanceService_Debit_NewUser(t *testing.T) {
	service, cleanup := setupBalanceService(t)
	defer cleanup()

	ctx := context.Background()

	// 新用户扣款：先建零余额记录，再因余额不足失败
	_, err := service.Debit(ctx, 1, decimal.NewFromInt(10))
	assert.Equal(t, ErrInsufficientFunds, err)

	record, err := service.GetBalance(ctx, 1)
	require.NoError(t, err)
	assert.True(t, record.Balance.IsZero())
}

func TestBalanceService_Debit_ToZero(t *testing.T) {
	service, cleanup := setupBalanceService(t)
	defer cleanup()

	ctx := context.Background()

	_, err := service.Credit(ctx, 1, decimal.NewFromInt(50))
	require.NoError(t, err)

	record, err := service.Debit(ctx, 1, decimal.NewFromInt(50))
	require.NoError(t, err)
	assert.True(t, record.Balance.IsZero())
}

func TestBalanceService_DeleteBalanceRecord(t *testing.T) {
	service, cleanup := setupBalanceService(t)
	defer cleanup()

	ctx := context.Background()

	_, err := service.Credit(ctx, 1, decimal.NewFromInt(10))
	require.NoError(t, err)

	deleted, err := service.DeleteBalanceRecord(ctx, 1)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = service.DeleteBalanceRecord(ctx, 1)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = service.GetBalance(ctx, 1)
	assert.Equal(t, ErrBalanceNotFound, err)
}
