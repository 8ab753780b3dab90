package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "parkease",
			Name:      "bookings_created_total",
			Help:      "Bookings created in PENDING state.",
		},
	)

	bookingsConfirmed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "parkease",
			Name:      "bookings_confirmed_total",
			Help:      "Bookings confirmed by payment capture.",
		},
	)

	windowsSplit = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "parkease",
			Name:      "availability_windows_split_total",
			Help:      "Availability windows split on booking confirmation.",
		},
	)

	payoutsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "parkease",
			Name:      "payouts_processed_total",
			Help:      "Batch-settle payout transfers by outcome.",
		},
		[]string{"outcome"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingsCreated, bookingsConfirmed, windowsSplit, payoutsProcessed)
	})
}

// IncBookingCreated counts a new PENDING booking.
func IncBookingCreated() {
	bookingsCreated.Inc()
}

// IncBookingConfirmed counts a confirmed booking.
func IncBookingConfirmed() {
	bookingsConfirmed.Inc()
}

// IncWindowSplit counts a window split.
func IncWindowSplit() {
	windowsSplit.Inc()
}

// IncPayout counts a per-seller settlement outcome ("settled", "skipped"
// or "failed").
func IncPayout(outcome string) {
	payoutsProcessed.WithLabelValues(outcome).Inc()
}
