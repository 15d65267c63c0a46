package activity

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks activity feed delivery. A nil *Metrics is a no-op.
type Metrics struct {
	Published prometheus.Counter
	Failed    prometheus.Counter
	Dropped   prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Published: f.NewCounter(prometheus.CounterOpts{
			Name: "triplist_activity_events_published_total",
			Help: "Activity events persisted to the feed store",
		}),
		Failed: f.NewCounter(prometheus.CounterOpts{
			Name: "triplist_activity_events_failed_total",
			Help: "Activity events the feed store rejected",
		}),
		Dropped: f.NewCounter(prometheus.CounterOpts{
			Name: "triplist_activity_events_dropped_total",
			Help: "Activity events dropped because the async buffer was full",
		}),
	}
}

func (m *Metrics) observe(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.Failed.Inc()
		return
	}
	m.Published.Inc()
}

func (m *Metrics) incDropped() {
	if m == nil {
		return
	}
	m.Dropped.Inc()
}
