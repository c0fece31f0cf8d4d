package middleware

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter counts failed login attempts per (lowercased email, client IP)
// in a Redis window: INCR with EXPIRE set on the first hit. Once the counter
// reaches the limit, further attempts are rejected until the key expires. A
// successful login deletes the key. The limiter is injected into the auth
// handler rather than consulted as global state.
type LoginLimiter struct {
	redis       *redis.Client
	maxAttempts int
	window      time.Duration
}

func NewLoginLimiter(redisClient *redis.Client, maxAttempts int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{
		redis:       redisClient,
		maxAttempts: maxAttempts,
		window:      window,
	}
}

func (l *LoginLimiter) key(email, ip string) string {
	return fmt.Sprintf("login_attempts:%s|%s", strings.ToLower(email), ip)
}

// TooManyAttempts reports whether the counter has reached the limit, and how
// long until it resets.
func (l *LoginLimiter) TooManyAttempts(ctx context.Context, email, ip string) (bool, time.Duration, error) {
	count, err := l.redis.Get(ctx, l.key(email, ip)).Int64()
	if err != nil {
		if err == redis.Nil {
			return false, 0, nil
		}
		return false, 0, err
	}

	if count < int64(l.maxAttempts) {
		return false, 0, nil
	}

	ttl, err := l.redis.TTL(ctx, l.key(email, ip)).Result()
	if err != nil || ttl < 0 {
		ttl = l.window
	}
	return true, ttl, nil
}

// Hit records a failed attempt. The window starts at the first failure.
func (l *LoginLimiter) Hit(ctx context.Context, email, ip string) error {
	count, err := l.redis.Incr(ctx, l.key(email, ip)).Result()
	if err != nil {
		return err
	}
	if count == 1 {
		return l.redis.Expire(ctx, l.key(email, ip), l.window).Err()
	}
	return nil
}

// Clear resets the counter after a successful authentication.
func (l *LoginLimiter) Clear(ctx context.Context, email, ip string) error {
	return l.redis.Del(ctx, l.key(email, ip)).Err()
}
