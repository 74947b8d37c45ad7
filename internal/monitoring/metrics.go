package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reservationsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reservations_created_total",
			Help: "Reservations created by seat selection",
		},
	)

	reservationsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reservations_expired_total",
			Help: "Reservations removed by the expiry sweep",
		},
	)

	reservationsPaid = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reservations_paid_total",
			Help: "Reservations confirmed by a payment signal",
		},
	)

	reservationsCanceled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reservations_canceled_total",
			Help: "Reservations canceled explicitly",
		},
	)

	seatConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "seat_claim_conflicts_total",
			Help: "Seat selections rejected because seats were already taken",
		},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "status"},
	)
)

func ReservationCreated()  { reservationsCreated.Inc() }
func ReservationPaid()     { reservationsPaid.Inc() }
func ReservationCanceled() { reservationsCanceled.Inc() }
func SeatConflict()        { seatConflicts.Inc() }

func ReservationsExpired(n int64) {
	if n > 0 {
		reservationsExpired.Add(float64(n))
	}
}

// ObserveRequest records one served HTTP request.
func ObserveRequest(method, status string, duration time.Duration) {
	requestDuration.WithLabelValues(method, status).Observe(duration.Seconds())
}
