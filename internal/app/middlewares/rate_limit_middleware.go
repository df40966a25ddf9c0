package middlewares

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/safatanc/gsalt-paylink/internal/app/errors"
	"github.com/safatanc/gsalt-paylink/internal/app/pkg"
	"github.com/safatanc/gsalt-paylink/internal/infrastructures"
	"github.com/sirupsen/logrus"
)

// RateLimiter defines the interface for rate limiting implementations
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit Rate) (bool, RateLimitInfo, error)
}

// Rate defines the rate limit configuration
type Rate struct {
	Requests int
	Window   time.Duration
}

// RateLimitInfo contains information about the current rate limit status
type RateLimitInfo struct {
	Limit     int
	Remaining int
	Reset     time.Time
}

// RateLimitMiddleware handles rate limiting
type RateLimitMiddleware struct {
	limiter RateLimiter
	clock   pkg.Clock
	metrics *infrastructures.Metrics
	limit   Rate
}

// NewRateLimitMiddleware creates a new RateLimitMiddleware
func NewRateLimitMiddleware(limiter RateLimiter, clock pkg.Clock, metrics *infrastructures.Metrics, config infrastructures.RateLimitConfig) *RateLimitMiddleware {
	limit := DefaultLimit
	if config.Requests > 0 {
		limit.Requests = config.Requests
	}
	if config.Window > 0 {
		limit.Window = config.Window
	}
	return &RateLimitMiddleware{
		limiter: limiter,
		clock:   clock,
		metrics: metrics,
		limit:   limit,
	}
}

// RedisRateLimiter implements RateLimiter with a sliding window kept in a
// Redis sorted set per key.
type RedisRateLimiter struct {
	redis     *redis.Client
	clock     pkg.Clock
	keyPrefix string
}

// NewRedisRateLimiter creates a new RedisRateLimiter
func NewRedisRateLimiter(redis *redis.Client, clock pkg.Clock, config infrastructures.RateLimitConfig) *RedisRateLimiter {
	return &RedisRateLimiter{
		redis:     redis,
		clock:     clock,
		keyPrefix: config.KeyPrefix,
	}
}

func (l *RedisRateLimiter) formatKey(key string) string {
	return fmt.Sprintf("%s:ratelimit:%s", l.keyPrefix, key)
}

// Allow implements RateLimiter.Allow using Redis sorted sets
func (l *RedisRateLimiter) Allow(ctx context.Context, key string, limit Rate) (bool, RateLimitInfo, error) {
	now := l.clock.Now()
	windowKey := l.formatKey(key)
	info := RateLimitInfo{
		Limit: limit.Requests,
		Reset: now.Add(limit.Window),
	}

	pipe := l.redis.Pipeline()

	// Remove old entries outside the window
	windowStart := now.Add(-limit.Window).UnixNano()
	pipe.ZRemRangeByScore(ctx, windowKey, "0", strconv.FormatInt(windowStart, 10))

	count := pipe.ZCard(ctx, windowKey)

	// members must stay distinct for requests arriving in the same nanosecond
	pipe.ZAdd(ctx, windowKey, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: fmt.Sprintf("%d-%s", now.UnixNano(), uuid.NewString()),
	})

	// Set expiry to clean up old keys
	pipe.Expire(ctx, windowKey, limit.Window)

	if _, err := pipe.Exec(ctx); err != nil {
		return true, info, err
	}

	// the request being admitted counts against the window too
	info.Remaining = limit.Requests - int(count.Val()) - 1
	if info.Remaining < 0 {
		info.Remaining = 0
		return false, info, nil
	}
	return true, info, nil
}

// DefaultLimit applies when the configuration leaves the limit unset.
var DefaultLimit = Rate{
	Requests: 60,
	Window:   time.Minute,
}

// LimitByIP creates a middleware that rate limits by IP address
func (m *RateLimitMiddleware) LimitByIP() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := fmt.Sprintf("ip:%s", getIPAddress(c))
		return m.handleRateLimit(c, "ip", key)
	}
}

func (m *RateLimitMiddleware) handleRateLimit(c *fiber.Ctx, scope, key string) error {
	allowed, info, err := m.limiter.Allow(c.UserContext(), key, m.limit)
	if err != nil {
		logrus.WithError(err).WithField("key", key).Warn("rate limiter unavailable, allowing request")
		return c.Next()
	}

	c.Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
	c.Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
	c.Set("X-RateLimit-Reset", strconv.FormatInt(info.Reset.Unix(), 10))

	if !allowed {
		if m.metrics != nil {
			m.metrics.RateLimitedRequests.WithLabelValues(scope).Inc()
		}
		retryAfter := int(math.Ceil(info.Reset.Sub(m.clock.Now()).Seconds()))
		return pkg.ErrorResponse(c, errors.NewTooManyRequestsError("Rate limit exceeded", retryAfter))
	}

	return c.Next()
}

// getIPAddress gets the client IP address from request
func getIPAddress(c *fiber.Ctx) string {
	if xff := c.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}

	if xrip := c.Get("X-Real-IP"); xrip != "" {
		return xrip
	}

	return c.IP()
}
