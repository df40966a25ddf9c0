package infrastructures

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	CooldownTriggers    prometheus.Counter
	CooldownActive      prometheus.Gauge
	PaymentLinksExpired prometheus.Counter
	CountdownStreams    prometheus.Gauge
	RateLimitedRequests *prometheus.CounterVec
}

func NewMetrics(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		CooldownTriggers: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "paylink_marketplace_cooldown_triggers_total",
			Help: "Number of times the marketplace API answered 429 and armed the cooldown",
		}),
		CooldownActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "paylink_marketplace_cooldown_active",
			Help: "1 while calls to the marketplace API are held back",
		}),
		PaymentLinksExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "paylink_payment_links_expired_total",
			Help: "Payment links moved from PENDING to EXPIRED",
		}),
		CountdownStreams: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "paylink_countdown_streams",
			Help: "Open countdown event streams",
		}),
		RateLimitedRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "paylink_rate_limited_requests_total",
			Help: "Inbound requests rejected by the rate limiter",
		}, []string{"scope"}),
	}

	registerer.MustRegister(
		m.CooldownTriggers,
		m.CooldownActive,
		m.PaymentLinksExpired,
		m.CountdownStreams,
		m.RateLimitedRequests,
	)

	return m
}

// NewPrometheusRegistry returns the default registry so /metrics also carries
// the Go runtime collectors.
func NewPrometheusRegistry() prometheus.Registerer {
	return prometheus.DefaultRegisterer
}

func NewPrometheusGatherer() prometheus.Gatherer {
	return prometheus.DefaultGatherer
}

// NewTestMetrics is NewMetrics on a private registry.
func NewTestMetrics() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}
