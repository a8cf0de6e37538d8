package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/EgehanKilicarslan/prayog/backend-go/internal/rpc"
)

// RateLimiter counts per-user actions per UTC day
type RateLimiter interface {
	// CheckDailyLimit reports whether another action is allowed and how many were used today
	CheckDailyLimit(ctx context.Context, action, userID string, limit int64) (bool, int64, error)

	// IncrementDailyCount records one more action for today
	IncrementDailyCount(ctx context.Context, action, userID string) error

	// Close closes the Redis connection
	Close() error
}

type redisRateLimiter struct {
	client *redis.Client
	logger *slog.Logger
	now    func() time.Time
}

// NewRedisRateLimiter creates a Redis-backed rate limiter on an existing client
func NewRedisRateLimiter(client *redis.Client, logger *slog.Logger) RateLimiter {
	return &redisRateLimiter{
		client: client,
		logger: logger,
		now:    time.Now,
	}
}

// dailyKey generates the Redis key for a daily counter
// Format: rate:daily:{action}:{userID}:{YYYY-MM-DD}
func dailyKey(action, userID string, now time.Time) string {
	return fmt.Sprintf("rate:daily:%s:%s:%s", action, userID, now.UTC().Format("2006-01-02"))
}

func (r *redisRateLimiter) CheckDailyLimit(ctx context.Context, action, userID string, limit int64) (bool, int64, error) {
	// If limit is 0 or negative, unlimited
	if limit <= 0 {
		return true, 0, nil
	}

	count, err := r.client.Get(ctx, dailyKey(action, userID, r.now())).Int64()
	if errors.Is(err, redis.Nil) {
		return true, 0, nil
	}
	if err != nil {
		r.logger.Error("❌ [RateLimiter] Failed to get daily count", "error", err, "user_id", userID, "action", action)
		// On error, allow the request but report it
		return true, 0, err
	}

	return count < limit, count, nil
}

func (r *redisRateLimiter) IncrementDailyCount(ctx context.Context, action, userID string) error {
	now := r.now().UTC()
	key := dailyKey(action, userID, now)

	pipe := r.client.Pipeline()
	pipe.Incr(ctx, key)

	// Expire at the next UTC midnight
	midnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
	pipe.Expire(ctx, key, midnight.Sub(now))

	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("❌ [RateLimiter] Failed to increment daily count", "error", err, "user_id", userID, "action", action)
		return err
	}

	return nil
}

func (r *redisRateLimiter) Close() error {
	return r.client.Close()
}

// NoOpRateLimiter is a rate limiter that always allows requests.
// Used when Redis is not available.
type NoOpRateLimiter struct {
	logger *slog.Logger
}

// NewNoOpRateLimiter creates a no-op rate limiter
func NewNoOpRateLimiter(logger *slog.Logger) RateLimiter {
	logger.Warn("⚠️ [RateLimiter] Using no-op rate limiter - rate limiting is disabled")
	return &NoOpRateLimiter{logger: logger}
}

func (r *NoOpRateLimiter) CheckDailyLimit(ctx context.Context, action, userID string, limit int64) (bool, int64, error) {
	return true, 0, nil
}

func (r *NoOpRateLimiter) IncrementDailyCount(ctx context.Context, action, userID string) error {
	return nil
}

func (r *NoOpRateLimiter) Close() error {
	return nil
}

// DailyLimit caps how often an authenticated caller may run a procedure per UTC day.
// It must be attached after RequireAuth. Only successful calls are counted; limiter
// failures let the call through.
func DailyLimit(limiter RateLimiter, limit int64, logger *slog.Logger) rpc.Middleware {
	return func(ctx *rpc.Context, next rpc.Next) (any, error) {
		if limit <= 0 || ctx.Identity == nil {
			return next(ctx)
		}

		userID := ctx.Identity.UserID

		allowed, used, err := limiter.CheckDailyLimit(ctx, ctx.Path, userID, limit)
		if err == nil && !allowed {
			logger.Warn("⚠️ [RateLimiter] Daily limit reached",
				"user_id", userID,
				"operation", ctx.Path,
				"used", used,
				"limit", limit,
			)
			return nil, rpc.NewError(rpc.CodeTooManyRequests,
				fmt.Sprintf("Daily limit of %d reached", limit), ErrRateLimited)
		}

		result, err := next(ctx)
		if err != nil {
			return nil, err
		}

		if incErr := limiter.IncrementDailyCount(ctx, ctx.Path, userID); incErr != nil {
			logger.Warn("⚠️ [RateLimiter] Failed to record call", "user_id", userID, "error", incErr)
		}

		return result, nil
	}
}

// Middleware errors
var (
	ErrRateLimited = errors.New("daily limit reached")
)
