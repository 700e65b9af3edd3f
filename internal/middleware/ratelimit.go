package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// FailPolicy defines the behavior when the rate limit store (Redis) is unavailable.
type FailPolicy int

const (
	// FailOpen allows the request to proceed if Redis is unavailable.
	FailOpen FailPolicy = iota
	// FailClosed answers 503 if Redis is unavailable.
	FailClosed
)

// ErrNoLimiterStore is returned when no Redis client is configured.
var ErrNoLimiterStore = errors.New("rate limit store unavailable")

// Limiter throttles requests in fixed Redis windows. It is built from the
// resolved application environment; throttling is skipped only in the
// "test" and "development" environments.
type Limiter struct {
	rdb    *redis.Client
	bypass bool
}

// NewLimiter returns a Limiter for env. An empty env is treated as a
// deployed environment and is throttled.
func NewLimiter(rdb *redis.Client, env string) *Limiter {
	l := &Limiter{rdb: rdb}
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "test", "development":
		l.bypass = true
		Logger.Warn("rate limiting disabled", slog.String("env", env))
	}
	return l
}

// Bypassed reports whether this limiter skips throttling.
func (l *Limiter) Bypassed() bool {
	return l.bypass
}

// Allow counts one hit against resource/id in a fixed window.
// Returns true if allowed, false if the limit is exceeded.
func (l *Limiter) Allow(ctx context.Context, resource, id string, limit int, window time.Duration) (bool, error) {
	if l.bypass {
		return true, nil
	}
	if l.rdb == nil {
		return false, ErrNoLimiterStore
	}

	key := fmt.Sprintf("rl:%s:%s", resource, id)

	cnt, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if cnt == 1 {
		if err := l.rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return cnt <= int64(limit), nil
}

// Limit returns a Fiber middleware enforcing `limit` requests per `window`,
// keyed by the authenticated principal when present, else by remote IP.
func (l *Limiter) Limit(limit int, window time.Duration, name ...string) fiber.Handler {
	return l.LimitWithPolicy(limit, window, FailOpen, name...)
}

// LimitWithPolicy is Limit with an explicit store failure policy.
func (l *Limiter) LimitWithPolicy(limit int, window time.Duration, policy FailPolicy, name ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var id string
		if uid, ok := c.Locals("userID").(uint); ok && uid != 0 {
			id = fmt.Sprintf("user:%d", uid)
		} else {
			id = "ip:" + c.IP()
		}

		resource := c.Path()
		if len(name) > 0 {
			resource = name[0]
		}

		allowed, err := l.Allow(c.UserContext(), resource, id, limit, window)
		if err != nil {
			if policy == FailClosed {
				Logger.WarnContext(c.UserContext(), "rate limit store unavailable, failing closed",
					slog.String("resource", resource), slog.String("error", err.Error()))
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"error": "rate limit unavailable",
					"code":  "RATE_LIMIT_UNAVAILABLE",
				})
			}
			return c.Next()
		}

		if !allowed {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "rate limit exceeded",
				"code":  "RATE_LIMITED",
			})
		}
		return c.Next()
	}
}
