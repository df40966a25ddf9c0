package services

import (
	"context"
	"testing"
	"time"

	"github.com/safatanc/gsalt-paylink/internal/app/models"
	"github.com/safatanc/gsalt-paylink/internal/infrastructures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpiryWatcher_RunOnceDrainsAllBatches(t *testing.T) {
	f := newPaymentLinkFixture(t)
	for i := 0; i < expiryBatchSize+5; i++ {
		createLink(t, f)
	}
	f.clock.Advance(20 * time.Minute)

	watcher := NewExpiryWatcher(f.service, f.clock, infrastructures.PaymentLinkConfig{ExpiryScanInterval: time.Second})
	n, err := watcher.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, expiryBatchSize+5, n)

	pending, _, err := f.repo.List(context.Background(), models.PaymentLinkFilter{Status: models.PaymentStatusPending})
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestExpiryWatcher_RunStopsOnCancel(t *testing.T) {
	f := newPaymentLinkFixture(t)
	link := createLink(t, f)
	f.clock.Advance(15 * time.Minute)

	watcher := NewExpiryWatcher(f.service, f.clock, infrastructures.PaymentLinkConfig{ExpiryScanInterval: time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watcher.Run(ctx) }()

	require.Eventually(t, func() bool {
		got, err := f.repo.GetByID(context.Background(), link.ID)
		return err == nil && got.Status == models.PaymentStatusExpired
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}
