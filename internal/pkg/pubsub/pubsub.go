package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
)

const (
	ChannelBillingEvents = "billing_events"
)

// BillingEvent 扣费成功后发布的事件，服务端转发给在线用户
type BillingEvent struct {
	Type           string          `json:"type"`
	UserID         int64           `json:"user_id"`
	SubscriptionID int64           `json:"subscription_id"`
	Name           string          `json:"name"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	BilledAtUtc    time.Time       `json:"billed_at_utc"`
	NextPaymentUtc time.Time       `json:"next_payment_utc"`
}

// Publisher Redis 发布者
type Publisher struct {
	client *redis.Client
}

// NewPublisher 创建发布者
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// PublishBillingEvent 发布扣费事件
func (p *Publisher) PublishBillingEvent(ctx context.Context, event *BillingEvent) error {
	event.Type = "subscription_billed"

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal billing event: %w", err)
	}

	return p.client.Publish(ctx, ChannelBillingEvents, data).Err()
}

// Subscriber Redis 订阅者
type Subscriber struct {
	client *redis.Client
}

// NewSubscriber 创建订阅者
func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Subscribe 订阅扣费事件，阻塞直到 ctx 取消
func (s *Subscriber) Subscribe(ctx context.Context, handler func(*BillingEvent)) error {
	pubsub := s.client.Subscribe(ctx, ChannelBillingEvents)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var event BillingEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue // 忽略解析错误
			}

			handler(&event)
		}
	}
}
