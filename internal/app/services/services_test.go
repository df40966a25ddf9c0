package services

import (
	"testing"
	"time"

	"github.com/safatanc/gsalt-paylink/internal/app/pkg"
	"github.com/safatanc/gsalt-paylink/internal/app/repositories"
	"github.com/safatanc/gsalt-paylink/internal/infrastructures"
)

var t0 = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

type paymentLinkFixture struct {
	repo    *repositories.MemoryPaymentLinkRepository
	clock   *pkg.ManualClock
	metrics *infrastructures.Metrics
	service *PaymentLinkService
}

func newPaymentLinkFixture(t *testing.T) *paymentLinkFixture {
	t.Helper()
	repo := repositories.NewMemoryPaymentLinkRepository()
	clock := pkg.NewManualClock(t0)
	metrics := infrastructures.NewTestMetrics()
	config := infrastructures.PaymentLinkConfig{
		TTL:                15 * time.Minute,
		ExpiryScanInterval: time.Second,
		CountdownTick:      time.Millisecond,
	}
	audit := NewAuditService(repo, clock)
	service := NewPaymentLinkService(repo, infrastructures.NewValidator(), audit, clock, config, metrics)
	return &paymentLinkFixture{repo: repo, clock: clock, metrics: metrics, service: service}
}
