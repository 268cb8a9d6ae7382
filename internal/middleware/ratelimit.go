package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
)

// RateLimiter provides Redis-backed sliding window rate limiting, keyed by
// client IP within a named bucket so auth endpoints can carry a stricter
// limit than the rest of the API.
type RateLimiter struct {
	rdb       *redis.Client
	windowSec int
}

// NewRateLimiter creates a rate limiter. A nil Redis client disables
// limiting entirely.
func NewRateLimiter(rdb *redis.Client, windowSec int) *RateLimiter {
	return &RateLimiter{rdb: rdb, windowSec: windowSec}
}

// Handler returns a Fiber middleware limiting each client IP to maxReqs
// requests per window within the given bucket.
func (rl *RateLimiter) Handler(bucket string, maxReqs int) fiber.Handler {
	if rl.rdb == nil {
		return func(c fiber.Ctx) error { return c.Next() }
	}

	return func(c fiber.Ctx) error {
		key := fmt.Sprintf("ratelimit:%s:%s", bucket, c.IP())
		ctx := context.Background()

		count, err := rl.rdb.Incr(ctx, key).Result()
		if err != nil {
			// If Redis fails, allow the request (fail-open)
			return c.Next()
		}

		if count == 1 {
			rl.rdb.Expire(ctx, key, time.Duration(rl.windowSec)*time.Second)
		}

		ttl, _ := rl.rdb.TTL(ctx, key).Result()

		c.Set("X-RateLimit-Limit", fmt.Sprintf("%d", maxReqs))
		c.Set("X-RateLimit-Remaining", fmt.Sprintf("%d", max(0, int64(maxReqs)-count)))
		c.Set("X-RateLimit-Reset", fmt.Sprintf("%d", int(ttl.Seconds())))

		if int(count) > maxReqs {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":       "rate limit exceeded",
				"retry_after": int(ttl.Seconds()),
			})
		}

		return c.Next()
	}
}
