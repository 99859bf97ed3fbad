package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/khiandraj/Finance-Tracker/config"
	"github.com/khiandraj/Finance-Tracker/internal/model"
	"github.com/khiandraj/Finance-Tracker/internal/model/dto"
	"github.com/khiandraj/Finance-Tracker/internal/pkg/pubsub"
	"github.com/khiandraj/Finance-Tracker/internal/pkg/schedule"
	"github.com/khiandraj/Finance-Tracker/internal/repository"
)

var ErrSubscriptionNotFound = errors.New("订阅不存在")

type SubscriptionService struct {
	subRepo   *repository.SubscriptionRepository
	recorder  TransactionRecorder
	publisher *pubsub.Publisher // 可为 nil（worker 未接 Redis 时不推送通知）
	cfg       *config.Config
}

func NewSubscriptionService(
	subRepo *repository.SubscriptionRepository,
	recorder TransactionRecorder,
	publisher *pubsub.Publisher,
	cfg *config.Config,
) *SubscriptionService {
	return &SubscriptionService{
		subRepo:   subRepo,
		recorder:  recorder,
		publisher: publisher,
		cfg:       cfg,
	}
}

// AddSubscription 创建订阅。未指定下次扣费时间时默认为当前时间，
// 即下一轮扫描就会扣费。
func (s *SubscriptionService) AddSubscription(ctx context.Context, userID int64, req *dto.CreateSubscriptionRequest) (*model.Subscription, error) {
	if userID <= 0 {
		return nil, ErrInvalidUserID
	}

	frequency, err := schedule.ParseFrequency(req.Frequency)
	if err != nil {
		return nil, err
	}
	if err := schedule.Validate(req.Amount, frequency); err != nil {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = s.defaultCurrency()
	}

	nextPayment := time.Now().UTC()
	if req.NextPaymentUtc != nil {
		nextPayment = req.NextPaymentUtc.UTC()
	}

	sub := &model.Subscription{
		UserID:         userID,
		Name:           req.Name,
		Amount:         req.Amount,
		Currency:       currency,
		Frequency:      frequency,
		NextPaymentUtc: nextPayment,
		IsActive:       true,
		Notes:          req.Notes,
	}

	if err := s.subRepo.Create(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// ListSubscriptions 查询用户订阅，onlyActive 为 true 时过滤掉已取消的
func (s *SubscriptionService) ListSubscriptions(ctx context.Context, userID int64, onlyActive bool) ([]model.Subscription, error) {
	if userID <= 0 {
		return nil, ErrInvalidUserID
	}
	return s.subRepo.ListByUser(ctx, userID, onlyActive)
}

// CancelSubscription 取消订阅（软删除，不可恢复）。
// 返回是否发生了状态变更：订阅不存在或已取消时返回 false。
func (s *SubscriptionService) CancelSubscription(ctx context.Context, id int64) (bool, error) {
	return s.subRepo.Cancel(ctx, id)
}

// GetSubscription 查询单个订阅
func (s *SubscriptionService) GetSubscription(ctx context.Context, id int64) (*model.Subscription, error) {
	sub, err := s.subRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return sub, nil
}

// ProcessDueSubscriptions 处理所有到期订阅，返回成功推进的数量。
//
// 每个订阅独立处理，单个失败不影响其他订阅：
//   - 流水写入失败：跳过，订阅保持到期状态，下一轮扫描重试（至少一次语义）；
//   - 流水重复（上一轮写入成功但推进失败的重试）：视为已记录，继续推进；
//   - 推进以扫描前读到的 next_payment_utc 为条件，并发扫描只有一个能成功，
//     失败的一方不计数。
func (s *SubscriptionService) ProcessDueSubscriptions(ctx context.Context, asOfUtc time.Time) (int, error) {
	dueSubs, err := s.subRepo.ListDue(ctx, asOfUtc)
	if err != nil {
		return 0, err
	}

	processed := 0
	for i := range dueSubs {
		sub := &dueSubs[i]
		if s.processOne(ctx, sub) {
			processed++
		}
	}
	return processed, nil
}

func (s *SubscriptionService) processOne(ctx context.Context, sub *model.Subscription) bool {
	due := sub.NextPaymentUtc
	reference := fmt.Sprintf("sub:%d:%d", sub.ID, due.Unix())
	description := fmt.Sprintf("Recurring payment for %s", sub.Name)

	err := s.recorder.RecordTransaction(ctx, sub.UserID, sub.Amount, sub.Currency, due, description, reference)
	if err != nil && !errors.Is(err, ErrDuplicateTransaction) {
		// 流水没落下来就不推进，订阅保持到期，下一轮重试
		log.Printf("Billing: record transaction failed for subscription %d: %v", sub.ID, err)
		return false
	}

	next, err := schedule.CalculateNext(due, sub.Frequency)
	if err != nil {
		log.Printf("Billing: subscription %d has invalid frequency %q: %v", sub.ID, sub.Frequency, err)
		return false
	}

	advanced, err := s.subRepo.AdvanceNextPayment(ctx, sub.ID, due, next)
	if err != nil {
		log.Printf("Billing: advance failed for subscription %d: %v", sub.ID, err)
		return false
	}
	if !advanced {
		// 另一个并发扫描已经推进过，或订阅刚被取消
		log.Printf("Billing: subscription %d already advanced or canceled, skipping", sub.ID)
		return false
	}

	s.publishBilled(ctx, sub, due, next)
	return true
}

func (s *SubscriptionService) publishBilled(ctx context.Context, sub *model.Subscription, billedAt, next time.Time) {
	if s.publisher == nil {
		return
	}

	err := s.publisher.PublishBillingEvent(ctx, &pubsub.BillingEvent{
		UserID:         sub.UserID,
		SubscriptionID: sub.ID,
		Name:           sub.Name,
		Amount:         sub.Amount,
		Currency:       sub.Currency,
		BilledAtUtc:    billedAt,
		NextPaymentUtc: next,
	})
	if err != nil {
		// 通知丢失不影响扣费结果
		log.Printf("Billing: publish event failed for subscription %d: %v", sub.ID, err)
	}
}

func (s *SubscriptionService) defaultCurrency() string {
	if s.cfg != nil && s.cfg.Billing.DefaultCurrency != "" {
		return s.cfg.Billing.DefaultCurrency
	}
	return "USD"
}
