package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the notification engine.
type Metrics struct {
	// Notifications written, by action kind and target role
	Dispatched *prometheus.CounterVec

	// Triggers dropped because the target role did not match the session
	Suppressed prometheus.Counter

	// Individual acknowledgements (tombstone writes)
	Acknowledged prometheus.Counter

	// One-time bootstrap batches executed
	BootstrapRuns prometheus.Counter

	// Feed computation latency including any bootstrap work
	FeedLatency prometheus.Histogram

	// Detector polling ticks executed
	PollTicks prometheus.Counter

	// Terminal status transitions the detector turned into notifications
	StatusTransitions *prometheus.CounterVec
}

// New creates a new Metrics instance with all engine metrics registered.
func New() *Metrics {
	return &Metrics{
		Dispatched: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "complimart_notifications_dispatched_total",
			Help: "Total notifications written to the store by action kind and target role",
		}, []string{"action", "role"}),

		Suppressed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "complimart_notifications_suppressed_total",
			Help: "Total triggers dropped by cross-role isolation",
		}),

		Acknowledged: promauto.NewCounter(prometheus.CounterOpts{
			Name: "complimart_notifications_acknowledged_total",
			Help: "Total notifications acknowledged and physically removed",
		}),

		BootstrapRuns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "complimart_notification_bootstrap_runs_total",
			Help: "Total one-time bootstrap batches executed",
		}),

		FeedLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "complimart_notification_feed_duration_seconds",
			Help:    "Duration of feed computation including bootstrap work",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),

		PollTicks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "complimart_detector_poll_ticks_total",
			Help: "Total detector polling ticks executed",
		}),

		StatusTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "complimart_detector_status_transitions_total",
			Help: "Total terminal document status transitions detected, by new status",
		}, []string{"status"}),
	}
}

// IncrementDispatched records a persisted notification.
func (m *Metrics) IncrementDispatched(action, role string) {
	if m != nil {
		m.Dispatched.WithLabelValues(action, role).Inc()
	}
}

// IncrementSuppressed records a cross-role no-op.
func (m *Metrics) IncrementSuppressed() {
	if m != nil {
		m.Suppressed.Inc()
	}
}

// IncrementAcknowledged records an acknowledgement.
func (m *Metrics) IncrementAcknowledged() {
	if m != nil {
		m.Acknowledged.Inc()
	}
}

// IncrementBootstrapRuns records a completed bootstrap batch.
func (m *Metrics) IncrementBootstrapRuns() {
	if m != nil {
		m.BootstrapRuns.Inc()
	}
}

// IncrementPollTicks records one detector tick.
func (m *Metrics) IncrementPollTicks() {
	if m != nil {
		m.PollTicks.Inc()
	}
}

// IncrementStatusTransitions records one detected terminal transition.
func (m *Metrics) IncrementStatusTransitions(status string) {
	if m != nil {
		m.StatusTransitions.WithLabelValues(status).Inc()
	}
}

// ObserveFeedLatency records one feed computation.
func (m *Metrics) ObserveFeedLatency(d time.Duration) {
	if m != nil {
		m.FeedLatency.Observe(d.Seconds())
	}
}
