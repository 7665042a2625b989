package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"subscription-platform/internal/principal"
)

const (
	loginMaxAttempts = 10
	loginCooldown    = 15 * time.Minute
)

var (
	ErrLoginRateLimited   = errors.New("auth: login rate limited")
	ErrLimiterUnavailable = errors.New("auth: login limiter unavailable")
)

// LoginLimiter throttles credential guessing with a fixed-window
// counter per (kind, identifier). Limiter outages must not take logins
// down with them; callers treat ErrLimiterUnavailable as fail-open.
type LoginLimiter struct {
	redis *redis.Client
}

func NewLoginLimiter(redisClient *redis.Client) *LoginLimiter {
	return &LoginLimiter{redis: redisClient}
}

func (l *LoginLimiter) key(kind principal.Kind, identifier string) string {
	return "login_att:" + string(kind) + ":" + identifier
}

func (l *LoginLimiter) Check(ctx context.Context, kind principal.Kind, identifier string) error {
	count, err := l.redis.Get(ctx, l.key(kind, identifier)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrLimiterUnavailable, err)
	}
	if count >= loginMaxAttempts {
		return ErrLoginRateLimited
	}
	return nil
}

func (l *LoginLimiter) RecordFailure(ctx context.Context, kind principal.Kind, identifier string) error {
	count, err := l.redis.Incr(ctx, l.key(kind, identifier)).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLimiterUnavailable, err)
	}
	if count == 1 {
		if err := l.redis.Expire(ctx, l.key(kind, identifier), loginCooldown).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrLimiterUnavailable, err)
		}
	}
	if count >= loginMaxAttempts {
		return ErrLoginRateLimited
	}
	return nil
}

func (l *LoginLimiter) Reset(ctx context.Context, kind principal.Kind, identifier string) error {
	if err := l.redis.Del(ctx, l.key(kind, identifier)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrLimiterUnavailable, err)
	}
	return nil
}
