package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LimiterConfig bounds failed sign-in attempts per key.
type LimiterConfig struct {
	MaxAttempts  int
	Window       time.Duration
	LockDuration time.Duration
}

// LoginLimiter counts failed sign-ins in Redis and locks a key once the
// threshold is reached inside the window.
// Key format: login:fail:<key> (counter) and login:lock:<key> (lock marker).
type LoginLimiter struct {
	client *redis.Client
	cfg    LimiterConfig
}

// NewLoginLimiter creates a LoginLimiter wrapping the given Redis client.
func NewLoginLimiter(client *redis.Client, cfg LimiterConfig) *LoginLimiter {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.Window <= 0 {
		cfg.Window = 15 * time.Minute
	}
	if cfg.LockDuration <= 0 {
		cfg.LockDuration = 10 * time.Minute
	}
	return &LoginLimiter{client: client, cfg: cfg}
}

// RetryAfter returns the remaining lock time for key, or zero when unlocked.
func (l *LoginLimiter) RetryAfter(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := l.client.PTTL(ctx, l.lockKey(key)).Result()
	if err != nil {
		return 0, fmt.Errorf("limiter ttl: %w", err)
	}
	if ttl <= 0 {
		return 0, nil
	}
	return ttl, nil
}

// RecordFailure increments the failure counter, starting the window on the
// first failure, and sets the lock when the threshold is hit. The counter is
// created with its TTL and incremented in one MULTI, so it can never outlive
// the window.
func (l *LoginLimiter) RecordFailure(ctx context.Context, key string) error {
	failKey := l.failKey(key)

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.SetNX(ctx, failKey, 0, l.cfg.Window)
		incr = p.Incr(ctx, failKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("limiter incr: %w", err)
	}
	if incr.Val() < int64(l.cfg.MaxAttempts) {
		return nil
	}

	_, err = l.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, l.lockKey(key), "1", l.cfg.LockDuration)
		p.Del(ctx, failKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("limiter lock: %w", err)
	}
	return nil
}

// Reset clears both the counter and any lock for key.
func (l *LoginLimiter) Reset(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, l.failKey(key), l.lockKey(key)).Err(); err != nil {
		return fmt.Errorf("limiter reset: %w", err)
	}
	return nil
}

func (l *LoginLimiter) failKey(key string) string {
	return fmt.Sprintf("login:fail:%s", key)
}

func (l *LoginLimiter) lockKey(key string) string {
	return fmt.Sprintf("login:lock:%s", key)
}
