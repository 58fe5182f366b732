package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Booking engine counters. Registration happens at package load via promauto;
// services increment these directly.
var (
	BookingsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ticketly_bookings_created_total",
		Help: "Bookings created, by kind (free or paid)",
	}, []string{"kind"})

	BookingsFinalized = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ticketly_bookings_finalized_total",
		Help: "Bookings leaving PENDING, by final status",
	}, []string{"status"})

	SeatRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ticketly_seat_rejections_total",
		Help: "Booking attempts rejected for insufficient seats",
	})

	PaymentVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ticketly_payment_verifications_total",
		Help: "Payment verification callbacks, by outcome",
	}, []string{"outcome"})
)

// Handler exposes the Prometheus scrape endpoint as a gin handler
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
