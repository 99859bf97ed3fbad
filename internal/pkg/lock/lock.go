package lock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// 只有持有者能释放锁，比较 token 后再删除
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Mutex 基于 Redis 的跨实例互斥锁（SET NX PX）。
// 多个扫描进程同时触发时只有一个能拿到锁，锁带 TTL 防止持有者崩溃后死锁。
type Mutex struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	token  string
}

func NewMutex(client *redis.Client, key string, ttl time.Duration) *Mutex {
	return &Mutex{
		client: client,
		key:    key,
		ttl:    ttl,
	}
}

// TryLock 尝试获取锁，不阻塞。返回是否获取成功。
func (m *Mutex) TryLock(ctx context.Context) (bool, error) {
	token, err := randomToken()
	if err != nil {
		return false, err
	}

	ok, err := m.client.SetNX(ctx, m.key, token, m.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if ok {
		m.token = token
	}
	return ok, nil
}

// Unlock 释放锁。锁已过期或被他人持有时是空操作。
func (m *Mutex) Unlock(ctx context.Context) error {
	if m.token == "" {
		return nil
	}

	err := releaseScript.Run(ctx, m.client, []string{m.key}, m.token).Err()
	m.token = ""
	if err != nil && err != redis.Nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}

func randomToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
