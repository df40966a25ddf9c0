package infrastructures

import "time"

type PaymentLinkConfig struct {
	// TTL is the payment window measured from link creation.
	TTL                time.Duration
	ExpiryScanInterval time.Duration
	CountdownTick      time.Duration
}

func NewPaymentLinkConfig() PaymentLinkConfig {
	return PaymentLinkConfig{
		TTL:                Config.PAYMENT_LINK_TTL,
		ExpiryScanInterval: Config.EXPIRY_SCAN_INTERVAL,
		CountdownTick:      Config.COUNTDOWN_TICK,
	}
}
