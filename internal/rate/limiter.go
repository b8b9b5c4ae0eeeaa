package rate

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRateLimited is returned when an identifier has exhausted its attempt budget.
var ErrRateLimited = errors.New("rate limited")

const loginKeyPrefix = "lr:"

// Config holds limiter tuning parameters.
type Config struct {
	MaxAttempts int
	Cooldown    time.Duration
}

// Limiter enforces per-identifier login attempt budgets using Redis counters.
type Limiter struct {
	redis  redis.UniversalClient
	config Config
}

// New creates a [Limiter] backed by the given Redis client.
func New(client redis.UniversalClient, cfg Config) *Limiter {
	return &Limiter{redis: client, config: cfg}
}

func loginKey(identifier string) string {
	return loginKeyPrefix + strings.ToLower(identifier)
}

// Check reports whether identifier is still within its attempt budget.
func (l *Limiter) Check(ctx context.Context, identifier string) error {
	value, err := l.redis.Get(ctx, loginKey(identifier)).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}

	count, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil
	}
	if count >= int64(l.config.MaxAttempts) {
		return ErrRateLimited
	}
	return nil
}

// Increment records one failed attempt for identifier, starting the cooldown
// window on the first failure.
func (l *Limiter) Increment(ctx context.Context, identifier string) error {
	key := loginKey(identifier)

	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return err
	}
	if count == 1 {
		if err := l.redis.Expire(ctx, key, l.config.Cooldown).Err(); err != nil {
			return err
		}
	}
	if count > int64(l.config.MaxAttempts) {
		return ErrRateLimited
	}
	return nil
}

// Reset clears the attempt counter for identifier after a successful login.
func (l *Limiter) Reset(ctx context.Context, identifier string) error {
	return l.redis.Del(ctx, loginKey(identifier)).Err()
}
