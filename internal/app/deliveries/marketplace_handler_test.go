package deliveries

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/safatanc/gsalt-paylink/internal/app/cooldown"
	"github.com/safatanc/gsalt-paylink/internal/app/models"
	"github.com/safatanc/gsalt-paylink/internal/app/pkg"
	"github.com/safatanc/gsalt-paylink/internal/app/services"
	"github.com/safatanc/gsalt-paylink/internal/infrastructures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMarketplaceApp(t *testing.T, clock *pkg.ManualClock, upstream http.HandlerFunc) (*httptest.Server, *atomic.Int32, *MarketplaceHandler) {
	t.Helper()
	hits := &atomic.Int32{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		upstream(w, r)
	}))
	t.Cleanup(server.Close)

	gate := cooldown.NewGate(cooldown.WithClock(clock), cooldown.WithScheduler(cooldown.NewManualScheduler()))
	client := infrastructures.NewMarketplaceClient(infrastructures.MarketplaceConfig{BaseURL: server.URL, Timeout: time.Second})
	service := services.NewMarketplaceService(client, gate, nil, clock, infrastructures.NewTestMetrics(), infrastructures.PaymentLinkConfig{TTL: 15 * time.Minute})
	return server, hits, NewMarketplaceHandler(service)
}

func TestMarketplaceHandler_CooldownRoundTrip(t *testing.T) {
	clock := pkg.NewManualClock(t0)
	var limited atomic.Bool
	limited.Store(true)
	_, hits, handler := newMarketplaceApp(t, clock, func(w http.ResponseWriter, r *http.Request) {
		if limited.Load() {
			w.Header().Set("Retry-After", "45")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode(models.MarketplacePayment{OrderID: "ord-1", Status: models.MarketplacePaymentPending, CreatedAt: t0})
	})
	app := newTestApp(handler)

	resp := doRequest(t, app, http.MethodGet, "/marketplace/orders/ord-1/payment", nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "45", resp.Header.Get("Retry-After"))

	clock.Advance(15 * time.Second)
	resp = doRequest(t, app, http.MethodGet, "/marketplace/cooldown", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	state := decodeResponse[models.CooldownState](t, resp)
	assert.True(t, state.Data.Active)
	assert.False(t, state.Data.Permitted)
	assert.Equal(t, 30, state.Data.RemainingSeconds)

	resp = doRequest(t, app, http.MethodGet, "/marketplace/orders/ord-1/countdown", nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "30", resp.Header.Get("Retry-After"))
	assert.Equal(t, int32(1), hits.Load())

	limited.Store(false)
	resp = doRequest(t, app, http.MethodDelete, "/marketplace/cooldown", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	state = decodeResponse[models.CooldownState](t, resp)
	assert.False(t, state.Data.Active)
	assert.True(t, state.Data.Permitted)
	assert.Nil(t, state.Data.CooldownEndsAt)

	resp = doRequest(t, app, http.MethodGet, "/marketplace/orders/ord-1/countdown", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	countdown := decodeResponse[models.CountdownResponse](t, resp)
	assert.True(t, countdown.Data.Active)
	assert.Equal(t, "14:45", countdown.Data.Remaining)
	assert.Equal(t, int32(2), hits.Load())
}
