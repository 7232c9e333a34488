package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const failureKeyPrefix = "portfolio:login:failures:" // portfolio:login:failures:{email} -> count

// Lockout counts failed logins per email in Redis. After maxAttempts failures
// inside the window, the email is locked until the counter key expires.
type Lockout struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

// NewLockout returns a lockout tracker. maxAttempts <= 0 disables locking.
func NewLockout(client *redis.Client, maxAttempts int, window time.Duration) *Lockout {
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &Lockout{client: client, maxAttempts: maxAttempts, window: window}
}

// Locked reports whether email is locked and for how long.
func (l *Lockout) Locked(ctx context.Context, email string) (bool, time.Duration, error) {
	if l.maxAttempts <= 0 {
		return false, 0, nil
	}

	key := l.key(email)
	n, err := l.client.Get(ctx, key).Int()
	if err == redis.Nil {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, fmt.Errorf("failed to read login failures: %w", err)
	}
	if n < l.maxAttempts {
		return false, 0, nil
	}

	ttl, err := l.client.TTL(ctx, key).Result()
	if err != nil {
		return true, l.window, nil
	}
	return true, ttl, nil
}

// RecordFailure increments the failure counter; the window starts at the first failure.
func (l *Lockout) RecordFailure(ctx context.Context, email string) error {
	if l.maxAttempts <= 0 {
		return nil
	}

	key := l.key(email)

	pipe := l.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, l.window)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record login failure: %w", err)
	}
	return nil
}

// Reset clears the failure counter after a successful login.
func (l *Lockout) Reset(ctx context.Context, email string) error {
	if l.maxAttempts <= 0 {
		return nil
	}
	return l.client.Del(ctx, l.key(email)).Err()
}

func (l *Lockout) key(email string) string {
	return failureKeyPrefix + strings.ToLower(strings.TrimSpace(email))
}
