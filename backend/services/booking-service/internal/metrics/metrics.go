package metrics

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "evcharge_booking"

var (
	once sync.Once

	bookingsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "Confirmed bookings by station.",
		},
		[]string{"station_id"},
	)

	bookingsCancelled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_cancelled_total",
			Help:      "Cancelled bookings by station.",
		},
		[]string{"station_id"},
	)

	bookingFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_failures_total",
			Help:      "Rejected booking attempts by reason.",
		},
		[]string{"reason"},
	)

	quotedPrice = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "quoted_price",
			Help:      "Final prices returned by the pricing engine.",
			Buckets:   []float64{10, 12, 15, 18, 22.5, 27, 33.75, 40.5},
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		},
		[]string{"route", "code"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingsCreated, bookingsCancelled, bookingFailures, quotedPrice, httpRequests)
	})
}

// Handler registers the collectors and serves the default registry.
func Handler() http.Handler {
	Register()
	return promhttp.Handler()
}

// BookingCreated counts a confirmed booking.
func BookingCreated(stationID int64) {
	bookingsCreated.WithLabelValues(strconv.FormatInt(stationID, 10)).Inc()
}

// BookingCancelled counts a cancellation.
func BookingCancelled(stationID int64) {
	bookingsCancelled.WithLabelValues(strconv.FormatInt(stationID, 10)).Inc()
}

// BookingFailed counts a rejected booking attempt.
func BookingFailed(reason string) {
	bookingFailures.WithLabelValues(reason).Inc()
}

// PriceQuoted observes a final price.
func PriceQuoted(price float64) {
	quotedPrice.Observe(price)
}

// ObserveHTTP counts a served request.
func ObserveHTTP(route string, code int) {
	httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}
