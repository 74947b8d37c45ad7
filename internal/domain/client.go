package domain

import "time"

// Client is a customer identified by a unique email address. Clients
// are looked up or created by email, never duplicated.
type Client struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
}

// ClientReservation is one entry in a client's reservation history.
// Active means the event has not started yet.
type ClientReservation struct {
	ReservationID string
	Status        ReservationStatus
	EventID       string
	EventName     string
	EventStartsAt time.Time
	Active        bool
}
