package domain

import "github.com/shopspring/decimal"

// TicketTier is a price category grouping tickets within an event.
type TicketTier struct {
	ID      string
	EventID string
	Name    string
	Price   decimal.Decimal
}

// Ticket is one sellable seat. Tickets are pre-created per event and are
// only ever claimed by or released from a reservation, never created by
// the reservation flow. ReservationID is nil while the seat is free.
type Ticket struct {
	ID             string
	EventID        string
	SeatIdentifier string
	TierID         string
	ReservationID  *string
}

// ReservationTicket is a ticket annotated with its tier, as shown on a
// reservation summary.
type ReservationTicket struct {
	SeatIdentifier string
	TierName       string
	Price          decimal.Decimal
}
