package worker

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/khiandraj/Finance-Tracker/config"
	"github.com/khiandraj/Finance-Tracker/internal/pkg/lock"
	"github.com/khiandraj/Finance-Tracker/internal/service"
)

const sweepLockKey = "billing:sweep_lock"

// Sweeper 定时扫描到期订阅并扣费。
// 多实例部署时通过 Redis 锁保证同一时刻只有一个实例在扫描。
type Sweeper struct {
	subscriptionService *service.SubscriptionService
	rdb                 *redis.Client
	interval            time.Duration
	lockTTL             time.Duration
}

func NewSweeper(subscriptionService *service.SubscriptionService, rdb *redis.Client, cfg *config.Config) *Sweeper {
	interval := time.Duration(cfg.Billing.SweepIntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	lockTTL := time.Duration(cfg.Billing.LockTTLSeconds) * time.Second
	if lockTTL <= 0 {
		lockTTL = 60 * time.Second
	}

	return &Sweeper{
		subscriptionService: subscriptionService,
		rdb:                 rdb,
		interval:            interval,
		lockTTL:             lockTTL,
	}
}

// Run 启动扫描循环，启动时先立即执行一轮，之后按配置间隔执行。
// 阻塞直到 ctx 取消。
func (s *Sweeper) Run(ctx context.Context) {
	log.Printf("Sweeper started, interval: %s", s.interval)

	s.SweepOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Sweeper shutting down")
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce 执行一轮到期扫描。拿不到锁说明其他实例正在扫描，直接跳过。
func (s *Sweeper) SweepOnce(ctx context.Context) {
	if s.rdb != nil {
		mutex := lock.NewMutex(s.rdb, sweepLockKey, s.lockTTL)
		acquired, err := mutex.TryLock(ctx)
		if err != nil {
			log.Printf("Sweeper: failed to acquire lock: %v", err)
			return
		}
		if !acquired {
			log.Println("Sweeper: another instance is sweeping, skipping")
			return
		}
		defer func() {
			if err := mutex.Unlock(ctx); err != nil {
				log.Printf("Sweeper: failed to release lock: %v", err)
			}
		}()
	}

	processed, err := s.subscriptionService.ProcessDueSubscriptions(ctx, time.Now().UTC())
	if err != nil {
		log.Printf("Sweeper: sweep failed: %v", err)
		return
	}
	if processed > 0 {
		log.Printf("Sweeper: processed %d due subscriptions", processed)
	}
}
