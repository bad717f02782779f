package middleware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/todo-api/utils/cache"
	"github.com/sahilchouksey/todo-api/utils/response"
)

// WriteThrottle rate-limits mutating todo requests per client IP using
// Redis counters. It fails open: when Redis is absent or unreachable the
// request proceeds.
type WriteThrottle struct {
	redisCache *cache.RedisCache
	max        int64
	window     time.Duration
}

// NewWriteThrottle creates a write throttle backed by the given cache.
func NewWriteThrottle(redisCache *cache.RedisCache) *WriteThrottle {
	return &WriteThrottle{
		redisCache: redisCache,
		max:        30,
		window:     time.Minute,
	}
}

// Limit is the middleware applied to POST/PUT/PATCH/DELETE routes. A nil
// receiver is a pass-through, so routes register it unconditionally.
func (t *WriteThrottle) Limit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if t == nil || t.redisCache == nil {
			return c.Next()
		}

		ctx := c.Context()
		key := fmt.Sprintf("write_throttle:%s", c.IP())

		count, err := t.redisCache.Increment(ctx, key)
		if err != nil {
			// Don't block legitimate users due to cache issues
			return c.Next()
		}

		if count == 1 {
			t.redisCache.Expire(ctx, key, t.window)
		}

		if count > t.max {
			ttl, _ := t.redisCache.TTL(ctx, key)
			retryAfter := int(ttl.Seconds())
			if retryAfter < 0 {
				retryAfter = int(t.window.Seconds())
			}

			c.Set("Retry-After", strconv.Itoa(retryAfter))
			return response.TooManyRequests(c, fmt.Sprintf("Too many write requests. Try again in %d seconds", retryAfter))
		}

		return c.Next()
	}
}
