// Package ratelimit applies a fixed request budget per time window in
// front of the credential endpoints. It is deliberately outside the auth
// core; the services never see a rate-limited request.
package ratelimit

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Limiter struct {
	redis  *redis.Client
	limit  int
	window time.Duration
	logger *zap.Logger
}

func New(client *redis.Client, limit int, window time.Duration, logger *zap.Logger) *Limiter {
	return &Limiter{redis: client, limit: limit, window: window, logger: logger}
}

func (l *Limiter) key(path, ip string) string {
	return "rl:" + path + ":" + ip
}

// Handle counts requests per client IP and path in a fixed window. When
// Redis is unreachable the limiter fails open; availability of login beats
// strictness of the budget.
func (l *Limiter) Handle() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.Context()
		key := l.key(c.Path(), c.IP())

		count, err := l.redis.Incr(ctx, key).Result()
		if err != nil {
			l.logger.Warn("rate limiter unavailable, failing open", zap.Error(err))
			return c.Next()
		}
		if count == 1 {
			if err := l.redis.Expire(ctx, key, l.window).Err(); err != nil {
				l.logger.Warn("failed to set rate limit window", zap.Error(err))
			}
		}

		if count > int64(l.limit) {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(l.window.Seconds())))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "too many requests",
			})
		}

		return c.Next()
	}
}
