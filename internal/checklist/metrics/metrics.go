package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the checklist module.
// Tracks checklist/item lifecycle counts, rejected operations and service latency.
type Metrics struct {
	ChecklistsCreated  prometheus.Counter
	ChecklistsDeleted  prometheus.Counter
	ChecklistsTotal    prometheus.Gauge
	ItemsCreated       prometheus.Counter
	ItemsDeleted       prometheus.Counter
	ItemsCascaded      prometheus.Counter
	ItemStatusToggled  *prometheus.CounterVec
	RejectedOperations *prometheus.CounterVec
	OperationDuration  *prometheus.HistogramVec
}

// New creates a new Metrics instance with all checklist module metrics registered on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ChecklistsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "triplist_checklists_created_total",
			Help: "Total number of checklists created",
		}),
		ChecklistsDeleted: f.NewCounter(prometheus.CounterOpts{
			Name: "triplist_checklists_deleted_total",
			Help: "Total number of checklists deleted",
		}),
		ChecklistsTotal: f.NewGauge(prometheus.GaugeOpts{
			Name: "triplist_checklists",
			Help: "Number of checklists currently stored",
		}),
		ItemsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "triplist_items_created_total",
			Help: "Total number of checklist items created",
		}),
		ItemsDeleted: f.NewCounter(prometheus.CounterOpts{
			Name: "triplist_items_deleted_total",
			Help: "Total number of checklist items deleted individually",
		}),
		ItemsCascaded: f.NewCounter(prometheus.CounterOpts{
			Name: "triplist_items_cascade_deleted_total",
			Help: "Total number of checklist items removed by checklist deletion",
		}),
		ItemStatusToggled: f.NewCounterVec(prometheus.CounterOpts{
			Name: "triplist_item_status_toggles_total",
			Help: "Item status toggles by resulting status",
		}, []string{"status"}),
		RejectedOperations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "triplist_rejected_operations_total",
			Help: "Operations rejected by domain rules, by reason",
		}, []string{"operation", "reason"}),
		OperationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "triplist_checklist_operation_duration_seconds",
			Help:    "Duration of checklist service operations",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}, []string{"operation"}),
	}
}

// ObserveOperation records the duration of a service operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveOperation(operation string, start time.Time) {
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementRejected(operation, reason string) {
	m.RejectedOperations.WithLabelValues(operation, reason).Inc()
}

func (m *Metrics) IncrementToggled(status string) {
	m.ItemStatusToggled.WithLabelValues(status).Inc()
}
