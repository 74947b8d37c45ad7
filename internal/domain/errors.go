package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEventNotFound       = errors.New("event not found")
	ErrTierNotFound        = errors.New("ticket tier not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrClientNotFound      = errors.New("client not found")

	ErrSeatsUnavailable   = errors.New("seats unavailable")
	ErrReservationExpired = errors.New("reservation expired")
	ErrReservationPaid    = errors.New("reservation already paid")
	ErrNoContactAttached  = errors.New("no contact attached to reservation")

	ErrNoSeatsSelected = errors.New("no seats selected")
	ErrUnknownSeats    = errors.New("unknown seat identifiers")
	ErrEmailRequired   = errors.New("email required")
	ErrLookupRequired  = errors.New("reservation id or email required")

	ErrEventNameRequired = errors.New("event name required")
	ErrTierNameRequired  = errors.New("tier name required")
	ErrTierAlreadyExists = errors.New("ticket tier already exists")
	ErrInvalidPrice      = errors.New("invalid price")
	ErrDuplicateSeat     = errors.New("duplicate seat identifier")
	ErrInvalidID         = errors.New("invalid id")
)

// SeatsTakenError reports which of the requested seats are already
// claimed by another reservation. It unwraps to ErrSeatsUnavailable so
// callers can branch on the sentinel without inspecting the list.
type SeatsTakenError struct {
	Seats []string
}

func (e *SeatsTakenError) Error() string {
	return fmt.Sprintf("seats already taken: %s", strings.Join(e.Seats, ", "))
}

func (e *SeatsTakenError) Unwrap() error {
	return ErrSeatsUnavailable
}
