// Package metrics exposes the Prometheus collectors of the booking
// engine.  Collectors are registered on a caller supplied registry so
// that tests and multiple engines in one process never collide.  A nil
// *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "showtime"

type Metrics struct {
	bookingsCreated      prometheus.Counter
	bookingTransitions   *prometheus.CounterVec
	payments             *prometheus.CounterVec
	reservationConflicts *prometheus.CounterVec
	reclaimed            prometheus.Counter
	reserveLatency       prometheus.Histogram
	httpRequests         *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		bookingsCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "Bookings created in PENDING state",
		}),
		bookingTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_transitions_total",
			Help:      "Booking transitions by target status",
		}, []string{"status"}),
		payments: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_total",
			Help:      "Payments recorded by outcome",
		}, []string{"status"}),
		reservationConflicts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservation_conflicts_total",
			Help:      "Reservations rejected because a seat was not available",
		}, []string{"showtime_id"}),
		reclaimed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_reclaimed_total",
			Help:      "Pending bookings expired by the reclaim worker",
		}),
		reserveLatency: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reservation_duration_seconds",
			Help:      "Time spent creating a booking, seat reservation included",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14),
		}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code",
		}, []string{"method", "route", "code"}),
	}
}

func (m *Metrics) BookingCreated() {
	if m == nil {
		return
	}
	m.bookingsCreated.Inc()
}

func (m *Metrics) BookingTransition(status string) {
	if m == nil {
		return
	}
	m.bookingTransitions.WithLabelValues(status).Inc()
}

func (m *Metrics) PaymentRecorded(status string) {
	if m == nil {
		return
	}
	m.payments.WithLabelValues(status).Inc()
}

func (m *Metrics) ReservationConflict(showtimeID string) {
	if m == nil {
		return
	}
	m.reservationConflicts.WithLabelValues(showtimeID).Inc()
}

func (m *Metrics) Reclaimed(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.reclaimed.Add(float64(n))
}

// ObserveReservation records the time elapsed since start.
func (m *Metrics) ObserveReservation(start time.Time) {
	if m == nil {
		return
	}
	m.reserveLatency.Observe(time.Since(start).Seconds())
}

func (m *Metrics) HTTPRequest(method, route, code string) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, code).Inc()
}
