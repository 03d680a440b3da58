package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all application metrics
type Metrics struct {
	// Reminder sweep metrics
	RemindersSent       prometheus.Counter
	RemindersFailed     prometheus.Counter
	DosesEvaluated      prometheus.Counter
	SweepDuration       prometheus.Histogram
	PrescriptionsSwept  prometheus.Counter
	PrescriptionsPurged prometheus.Counter

	// Booking metrics
	SlotChecks *prometheus.CounterVec
}

// New creates unregistered application metrics. Call Register to expose them.
func New(namespace string) *Metrics {
	return &Metrics{
		RemindersSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_sent_total",
			Help:      "Total number of reminder notifications sent",
		}),
		RemindersFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_failed_total",
			Help:      "Total number of reminder notifications that failed to send",
		}),
		DosesEvaluated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "doses_evaluated_total",
			Help:      "Total number of scheduled doses evaluated by the sweep",
		}),
		SweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sweep_duration_seconds",
			Help:      "Time spent on one reminder sweep",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}),
		PrescriptionsSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prescriptions_swept_total",
			Help:      "Total number of prescriptions examined by the sweep",
		}),
		PrescriptionsPurged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prescriptions_purged_total",
			Help:      "Total number of expired prescriptions deleted",
		}),
		SlotChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slot_checks_total",
			Help:      "Total number of booking slot availability checks",
		}, []string{"result"}),
	}
}

// Register registers all metrics with the given registerer.
func (m *Metrics) Register(reg prometheus.Registerer) {
	reg.MustRegister(
		m.RemindersSent,
		m.RemindersFailed,
		m.DosesEvaluated,
		m.SweepDuration,
		m.PrescriptionsSwept,
		m.PrescriptionsPurged,
		m.SlotChecks,
	)
}
