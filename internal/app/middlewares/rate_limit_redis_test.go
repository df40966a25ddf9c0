package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/safatanc/gsalt-paylink/internal/app/pkg"
	"github.com/safatanc/gsalt-paylink/internal/infrastructures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return mr, client
}

func newTestRedisLimiter(t *testing.T) (*miniredis.Miniredis, *pkg.ManualClock, *RedisRateLimiter) {
	t.Helper()
	mr, client := setupTestRedis(t)
	clock := pkg.NewManualClock(t0)
	limiter := NewRedisRateLimiter(client, clock, infrastructures.RateLimitConfig{KeyPrefix: "paylink"})
	return mr, clock, limiter
}

func TestRedisRateLimiter_DeniesOverLimitAndSlides(t *testing.T) {
	mr, clock, limiter := newTestRedisLimiter(t)
	ctx := context.Background()
	limit := Rate{Requests: 3, Window: time.Minute}

	for want := 2; want >= 0; want-- {
		allowed, info, err := limiter.Allow(ctx, "ip:10.0.0.1", limit)
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, want, info.Remaining)
		assert.Equal(t, 3, info.Limit)
		clock.Advance(time.Second)
	}

	allowed, info, err := limiter.Allow(ctx, "ip:10.0.0.1", limit)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.Equal(t, t0.Add(3*time.Second+time.Minute), info.Reset)

	// other keys have their own window
	allowed, _, err = limiter.Allow(ctx, "ip:10.0.0.2", limit)
	require.NoError(t, err)
	assert.True(t, allowed)

	// t0 and t0+1s fall out of the window, t0+2s and the denied t0+3s remain
	clock.Set(t0.Add(61 * time.Second))
	allowed, info, err = limiter.Allow(ctx, "ip:10.0.0.1", limit)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 0, info.Remaining)

	allowed, _, err = limiter.Allow(ctx, "ip:10.0.0.1", limit)
	require.NoError(t, err)
	assert.False(t, allowed)

	assert.True(t, mr.Exists("paylink:ratelimit:ip:10.0.0.1"))
	assert.Equal(t, time.Minute, mr.TTL("paylink:ratelimit:ip:10.0.0.1"))
}

func TestRedisRateLimiter_CountsRequestsAtTheSameInstant(t *testing.T) {
	_, _, limiter := newTestRedisLimiter(t)
	ctx := context.Background()
	limit := Rate{Requests: 2, Window: time.Minute}

	for i := 0; i < 2; i++ {
		allowed, _, err := limiter.Allow(ctx, "ip:10.0.0.1", limit)
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, _, err := limiter.Allow(ctx, "ip:10.0.0.1", limit)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestRedisRateLimiter_ErrorFailsOpen(t *testing.T) {
	mr, _, limiter := newTestRedisLimiter(t)
	mr.Close()

	allowed, info, err := limiter.Allow(context.Background(), "ip:10.0.0.1", Rate{Requests: 1, Window: time.Minute})
	assert.Error(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 1, info.Limit)
}

func TestLimitByIP_WithRedis(t *testing.T) {
	_, clock, limiter := newTestRedisLimiter(t)
	mw := NewRateLimitMiddleware(limiter, clock, infrastructures.NewTestMetrics(), infrastructures.RateLimitConfig{
		Requests: 1,
		Window:   10 * time.Second,
	})
	app := fiber.New()
	app.Use(mw.LimitByIP())
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})

	do := func() *http.Response {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Real-IP", "192.168.1.9")
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	assert.Equal(t, http.StatusOK, do().StatusCode)

	denied := do()
	assert.Equal(t, http.StatusTooManyRequests, denied.StatusCode)
	assert.Equal(t, "10", denied.Header.Get(fiber.HeaderRetryAfter))

	clock.Advance(11 * time.Second)
	assert.Equal(t, http.StatusOK, do().StatusCode)
}
