package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	Register()
	Register()

	before := testutil.ToFloat64(bookingsCreated.WithLabelValues("7"))
	BookingCreated(7)
	BookingCreated(7)
	assert.Equal(t, before+2, testutil.ToFloat64(bookingsCreated.WithLabelValues("7")))

	BookingCancelled(7)
	assert.GreaterOrEqual(t, testutil.ToFloat64(bookingsCancelled.WithLabelValues("7")), 1.0)

	BookingFailed("conflict")
	assert.GreaterOrEqual(t, testutil.ToFloat64(bookingFailures.WithLabelValues("conflict")), 1.0)

	ObserveHTTP("/bookings", 201)
	assert.GreaterOrEqual(t, testutil.ToFloat64(httpRequests.WithLabelValues("/bookings", "201")), 1.0)

	PriceQuoted(40.5)
	assert.Equal(t, 1, testutil.CollectAndCount(quotedPrice))
}
