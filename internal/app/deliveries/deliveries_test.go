package deliveries

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/safatanc/gsalt-paylink/internal/app/models"
	"github.com/safatanc/gsalt-paylink/internal/app/pkg"
	"github.com/safatanc/gsalt-paylink/internal/app/repositories"
	"github.com/safatanc/gsalt-paylink/internal/app/services"
	"github.com/safatanc/gsalt-paylink/internal/infrastructures"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

// steppingClock moves forward by step every time it is read.
type steppingClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now
	c.now = c.now.Add(c.step)
	return now
}

func newPaymentLinkService(clock pkg.Clock) *services.PaymentLinkService {
	repo := repositories.NewMemoryPaymentLinkRepository()
	config := infrastructures.PaymentLinkConfig{
		TTL:                15 * time.Minute,
		ExpiryScanInterval: time.Second,
		CountdownTick:      time.Millisecond,
	}
	return services.NewPaymentLinkService(
		repo,
		infrastructures.NewValidator(),
		services.NewAuditService(repo, clock),
		clock,
		config,
		infrastructures.NewTestMetrics(),
	)
}

func newTestApp(handlers ...interface{ RegisterRoutes(fiber.Router) }) *fiber.App {
	app := fiber.New()
	for _, h := range handlers {
		h.RegisterRoutes(app)
	}
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, target string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	return resp
}

func decodeResponse[T any](t *testing.T, resp *http.Response) models.WebResponse[T] {
	t.Helper()
	defer resp.Body.Close()
	var out models.WebResponse[T]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}
