package middlewares

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/safatanc/gsalt-paylink/internal/app/pkg"
	"github.com/safatanc/gsalt-paylink/internal/infrastructures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLimiter struct {
	clock *pkg.ManualClock
	seen  map[string]int
	err   error
}

func (l *countingLimiter) Allow(_ context.Context, key string, limit Rate) (bool, RateLimitInfo, error) {
	info := RateLimitInfo{Limit: limit.Requests, Reset: l.clock.Now().Add(limit.Window)}
	if l.err != nil {
		return true, info, l.err
	}
	l.seen[key]++
	info.Remaining = limit.Requests - l.seen[key]
	if info.Remaining < 0 {
		info.Remaining = 0
		return false, info, nil
	}
	return true, info, nil
}

func newLimitedApp(limiter RateLimiter, clock pkg.Clock, metrics *infrastructures.Metrics) *fiber.App {
	mw := NewRateLimitMiddleware(limiter, clock, metrics, infrastructures.RateLimitConfig{
		Requests: 2,
		Window:   30 * time.Second,
	})
	app := fiber.New()
	app.Use(mw.LimitByIP())
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})
	return app
}

func TestLimitByIP_RejectsOverLimit(t *testing.T) {
	clock := pkg.NewManualClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	limiter := &countingLimiter{clock: clock, seen: map[string]int{}}
	metrics := infrastructures.NewTestMetrics()
	app := newLimitedApp(limiter, clock, metrics)

	do := func() *http.Response {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Forwarded-For", "10.0.0.1, 172.16.0.1")
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	first := do()
	assert.Equal(t, http.StatusOK, first.StatusCode)
	assert.Equal(t, "2", first.Header.Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header.Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, do().StatusCode)

	denied := do()
	assert.Equal(t, http.StatusTooManyRequests, denied.StatusCode)
	assert.Equal(t, "30", denied.Header.Get(fiber.HeaderRetryAfter))
	assert.Equal(t, "0", denied.Header.Get("X-RateLimit-Remaining"))
	assert.Equal(t, 3, limiter.seen["ip:10.0.0.1"])
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.RateLimitedRequests.WithLabelValues("ip")))
}

func TestLimitByIP_FailsOpen(t *testing.T) {
	clock := pkg.NewManualClock(time.Now())
	limiter := &countingLimiter{clock: clock, seen: map[string]int{}, err: stderrors.New("connection refused")}
	app := newLimitedApp(limiter, clock, nil)

	for i := 0; i < 5; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, resp.Header.Get("X-RateLimit-Limit"))
	}
}

func TestNewRateLimitMiddleware_DefaultLimit(t *testing.T) {
	mw := NewRateLimitMiddleware(nil, pkg.NewSystemClock(), nil, infrastructures.RateLimitConfig{})
	assert.Equal(t, DefaultLimit, mw.limit)
}
