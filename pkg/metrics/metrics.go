package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Booking lifecycle
	BookingsCreated   prometheus.Counter
	BookingsCompleted prometheus.Counter
	PairedWriteErrors prometheus.Counter
	BookingLatency    prometheus.Histogram

	// Reconciliation sweep
	OrphansDetected  prometheus.Counter
	OrphansRepaired  prometheus.Counter
	ReconcilerErrors prometheus.Counter

	// Transaction metrics
	Transactions        *prometheus.CounterVec
	TransactionDuration prometheus.Histogram
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace, subsystem string) *Metrics {
	return &Metrics{
		BookingsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "bookings_created_total",
			Help:      "Total number of bookings created",
		}),
		BookingsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "bookings_completed_total",
			Help:      "Total number of bookings marked completed by staff",
		}),
		PairedWriteErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "paired_write_errors_total",
			Help:      "Total number of failed booking/record paired writes",
		}),
		BookingLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "booking_create_duration_seconds",
			Help:      "Time spent creating a booking with its paired record",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		OrphansDetected: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "orphan_bookings_detected_total",
			Help:      "Total number of bookings found without a paired medical record",
		}),
		OrphansRepaired: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "orphan_bookings_repaired_total",
			Help:      "Total number of orphaned bookings repaired by the reconciler",
		}),
		ReconcilerErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "reconciler_errors_total",
			Help:      "Total number of reconciliation sweep failures",
		}),
		Transactions: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "transactions_total",
			Help:      "Total number of database transactions by outcome",
		}, []string{"status"}),
		TransactionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "transaction_duration_seconds",
			Help:      "Database transaction latency",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}
