// Package ratelimit throttles repeated sign-in failures with fixed windows in Redis.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrRateLimited      = errors.New("signin rate limited")
	ErrRedisUnavailable = errors.New("signin limiter redis unavailable")
)

type Config struct {
	MaxFailures int
	Cooldown    time.Duration
}

// SigninLimiter counts failed sign-ins per email and per client IP. A key that
// reaches MaxFailures stays blocked until its window expires. A nil limiter
// allows everything.
type SigninLimiter struct {
	redis redis.UniversalClient
	cfg   Config
}

func NewSigninLimiter(rdb redis.UniversalClient, cfg Config) *SigninLimiter {
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = 10
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 15 * time.Minute
	}
	return &SigninLimiter{redis: rdb, cfg: cfg}
}

func (l *SigninLimiter) Check(ctx context.Context, email, ip string) error {
	if l == nil || l.redis == nil {
		return nil
	}
	for _, key := range l.keys(email, ip) {
		count, err := l.redis.Get(ctx, key).Int64()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
		if int(count) >= l.cfg.MaxFailures {
			return ErrRateLimited
		}
	}
	return nil
}

func (l *SigninLimiter) RecordFailure(ctx context.Context, email, ip string) error {
	if l == nil || l.redis == nil {
		return nil
	}
	for _, key := range l.keys(email, ip) {
		count, err := l.redis.Incr(ctx, key).Result()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
		if count == 1 {
			if err := l.redis.Expire(ctx, key, l.cfg.Cooldown).Err(); err != nil {
				return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
			}
		}
	}
	return nil
}

// Reset clears the email counter after a successful sign-in. The IP counter is
// left alone so one good account cannot unlock a spraying client.
func (l *SigninLimiter) Reset(ctx context.Context, email string) error {
	if l == nil || l.redis == nil {
		return nil
	}
	if err := l.redis.Del(ctx, emailKey(email)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

func (l *SigninLimiter) keys(email, ip string) []string {
	keys := []string{emailKey(email)}
	if ip != "" {
		keys = append(keys, "sfc:signin:ip:"+ip)
	}
	return keys
}

func emailKey(email string) string {
	return "sfc:signin:email:" + strings.ToLower(strings.TrimSpace(email))
}
