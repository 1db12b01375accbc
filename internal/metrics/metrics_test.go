package metrics_test

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/showtime-booking/internal/metrics"
)

func TestCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.BookingCreated()
	m.BookingCreated()
	m.BookingTransition("confirmed")
	m.PaymentRecorded("success")
	m.ReservationConflict("st001")
	m.Reclaimed(3)
	m.Reclaimed(0)
	m.ObserveReservation(time.Now())
	m.HTTPRequest("GET", "/v1/movies", "200")

	expected := `
# HELP showtime_bookings_created_total Bookings created in PENDING state
# TYPE showtime_bookings_created_total counter
showtime_bookings_created_total 2
# HELP showtime_bookings_reclaimed_total Pending bookings expired by the reclaim worker
# TYPE showtime_bookings_reclaimed_total counter
showtime_bookings_reclaimed_total 3
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"showtime_bookings_created_total", "showtime_bookings_reclaimed_total"))

	count, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 7, count)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.BookingCreated()
		m.BookingTransition("expired")
		m.PaymentRecorded("failed")
		m.ReservationConflict("st001")
		m.Reclaimed(1)
		m.ObserveReservation(time.Now())
		m.HTTPRequest("GET", "/", "200")
	})
}
