package services

import (
	"context"
	"time"

	"github.com/safatanc/gsalt-paylink/internal/app/pkg"
	"github.com/safatanc/gsalt-paylink/internal/infrastructures"
	"github.com/sirupsen/logrus"
)

const expiryBatchSize = 100

// ExpiryWatcher periodically expires PENDING payment links whose window has
// elapsed, so links nobody is looking at still settle.
type ExpiryWatcher struct {
	paymentLinkService *PaymentLinkService
	clock              pkg.Clock
	interval           time.Duration
}

func NewExpiryWatcher(paymentLinkService *PaymentLinkService, clock pkg.Clock, config infrastructures.PaymentLinkConfig) *ExpiryWatcher {
	interval := config.ExpiryScanInterval
	if interval <= 0 {
		interval = time.Second
	}
	return &ExpiryWatcher{
		paymentLinkService: paymentLinkService,
		clock:              clock,
		interval:           interval,
	}
}

// Run scans every interval until ctx is cancelled. Scan errors are logged and
// retried on the next tick.
func (w *ExpiryWatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logrus.WithField("interval", w.interval.String()).Info("payment link expiry watcher started")
	for {
		select {
		case <-ctx.Done():
			logrus.Info("payment link expiry watcher stopped")
			return nil
		case <-ticker.C:
			if _, err := w.RunOnce(ctx); err != nil && ctx.Err() == nil {
				logrus.WithError(err).Error("payment link expiry scan failed")
			}
		}
	}
}

// RunOnce drains every elapsed link in batches and returns how many it expired.
func (w *ExpiryWatcher) RunOnce(ctx context.Context) (int, error) {
	now := w.clock.Now()
	total := 0
	for {
		n, err := w.paymentLinkService.ExpireElapsed(ctx, now, expiryBatchSize)
		total += n
		if err != nil {
			return total, err
		}
		if n < expiryBatchSize || ctx.Err() != nil {
			break
		}
	}

	if total > 0 {
		logrus.WithField("count", total).Info("expired elapsed payment links")
	}
	return total, nil
}
