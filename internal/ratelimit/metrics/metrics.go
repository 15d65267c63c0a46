package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Checks        *prometheus.CounterVec
	Rejections    *prometheus.CounterVec
	StoreErrors   prometheus.Counter
	FallbackState prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Checks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "triplist_ratelimit_checks_total",
			Help: "Rate limit checks by endpoint class",
		}, []string{"class"}),
		Rejections: f.NewCounterVec(prometheus.CounterOpts{
			Name: "triplist_ratelimit_rejections_total",
			Help: "Requests rejected with 429 by endpoint class",
		}, []string{"class"}),
		StoreErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "triplist_ratelimit_store_errors_total",
			Help: "Bucket store failures; the request is let through",
		}),
		FallbackState: f.NewGauge(prometheus.GaugeOpts{
			Name: "triplist_ratelimit_fallback_active",
			Help: "1 while the shared bucket store is bypassed for the in-memory fallback",
		}),
	}
}

func (m *Metrics) RecordCheck(class string, allowed bool) {
	m.Checks.WithLabelValues(class).Inc()
	if !allowed {
		m.Rejections.WithLabelValues(class).Inc()
	}
}

func (m *Metrics) RecordStoreError() {
	m.StoreErrors.Inc()
}

func (m *Metrics) SetFallbackActive(active bool) {
	if active {
		m.FallbackState.Set(1)
		return
	}
	m.FallbackState.Set(0)
}
