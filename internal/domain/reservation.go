package domain

import "time"

type ReservationStatus string

const (
	// ReservationOngoing is the initial state: seats are claimed but no
	// contact details have been attached yet.
	ReservationOngoing ReservationStatus = "ONGOING"
	// ReservationUnpaid means contact details are attached and payment
	// is presumed in progress.
	ReservationUnpaid ReservationStatus = "UNPAID"
	// ReservationPaid is terminal.
	ReservationPaid ReservationStatus = "PAID"
)

// Reservation is a time-boxed hold on a set of tickets. A reservation
// that is not PAID and whose BookedTime is older than the hold duration
// is invalid and must be purged with its tickets released.
type Reservation struct {
	ID         string
	EventID    string
	Status     ReservationStatus
	BookedTime time.Time
	ClientID   *string
}

// Expired reports whether the hold has lapsed at the given instant.
// PAID reservations never expire.
func (r Reservation) Expired(now time.Time, holdDuration time.Duration) bool {
	if r.Status == ReservationPaid {
		return false
	}
	return now.Sub(r.BookedTime) >= holdDuration
}

// RemainingHold returns how long the hold is still valid at the given
// instant. Zero or negative means the hold has lapsed.
func (r Reservation) RemainingHold(now time.Time, holdDuration time.Duration) time.Duration {
	return holdDuration - now.Sub(r.BookedTime)
}
