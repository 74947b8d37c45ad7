package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/ITopGun/TicketSelling-Platform/internal/domain"
)

// deleteExpired purges every non-PAID reservation booked at or before
// the cutoff. Tickets are released before the reservation rows go
// away; the schema has no cascade from reservations to tickets.
func deleteExpired(ctx context.Context, q querier, cutoff time.Time) (int64, error) {
	if _, err := q.Exec(ctx, `
UPDATE tickets
SET reservation_id = NULL
WHERE reservation_id IN (
	SELECT id FROM reservations WHERE status <> $1 AND booked_time <= $2
)`, domain.ReservationPaid, cutoff); err != nil {
		return 0, fmt.Errorf("release expired tickets: %w", err)
	}

	tag, err := q.Exec(ctx,
		`DELETE FROM reservations WHERE status <> $1 AND booked_time <= $2`,
		domain.ReservationPaid, cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("delete expired reservations: %w", err)
	}
	return tag.RowsAffected(), nil
}
