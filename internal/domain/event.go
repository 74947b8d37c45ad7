package domain

import "time"

// Event represents a ticketed event with seat-level inventory.
type Event struct {
	ID          string
	Name        string
	StartsAt    time.Time
	Description string
}
