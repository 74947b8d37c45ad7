package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/ITopGun/TicketSelling-Platform/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// CatalogRepository serves the presentation-side reads: the seat
// layout per tier and the per-tier free-seat counts. It never mutates
// ticket state.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

func (r *CatalogRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *CatalogRepository) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	const query = `SELECT id, name, starts_at, description FROM events WHERE id = $1`

	var e domain.Event
	err := db(ctx, r.pool).QueryRow(ctx, query, eventID).
		Scan(&e.ID, &e.Name, &e.StartsAt, &e.Description)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Event{}, domain.ErrInvalidID
		}
		return domain.Event{}, mapNoRows(err, domain.ErrEventNotFound, "get event")
	}
	return e, nil
}

// TierSeatRow is one ticket as it appears on the seat layout.
type TierSeatRow struct {
	TierID         string
	TierName       string
	Price          decimal.Decimal
	SeatIdentifier string
	Free           bool
}

// ListEventSeats returns every ticket of the event with its tier,
// ordered by descending tier price and then by seat identifier. The
// stable order lets the service chunk tickets into fixed-size rows.
func (r *CatalogRepository) ListEventSeats(ctx context.Context, eventID string) ([]TierSeatRow, error) {
	const query = `
SELECT tt.id, tt.name, tt.price, t.seat_identifier, t.reservation_id IS NULL AS free
FROM tickets t
JOIN ticket_tiers tt ON tt.id = t.tier_id
WHERE t.event_id = $1
ORDER BY tt.price DESC, tt.name ASC, t.seat_identifier ASC`

	rows, err := db(ctx, r.pool).Query(ctx, query, eventID)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list event seats: %w", err)
	}
	defer rows.Close()

	var seats []TierSeatRow
	for rows.Next() {
		var s TierSeatRow
		if err := rows.Scan(&s.TierID, &s.TierName, &s.Price, &s.SeatIdentifier, &s.Free); err != nil {
			return nil, fmt.Errorf("scan seat: %w", err)
		}
		seats = append(seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list event seats: %w", err)
	}
	return seats, nil
}

// TierAvailability is the free-seat count for one price tier.
type TierAvailability struct {
	TierID    string
	TierName  string
	Price     decimal.Decimal
	FreeSeats int
}

func (r *CatalogRepository) TierAvailability(ctx context.Context, eventID string) ([]TierAvailability, error) {
	const query = `
SELECT tt.id, tt.name, tt.price,
	COUNT(t.id) FILTER (WHERE t.reservation_id IS NULL) AS free_seats
FROM ticket_tiers tt
LEFT JOIN tickets t ON t.tier_id = tt.id
WHERE tt.event_id = $1
GROUP BY tt.id, tt.name, tt.price
ORDER BY tt.price DESC, tt.name ASC`

	rows, err := db(ctx, r.pool).Query(ctx, query, eventID)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("tier availability: %w", err)
	}
	defer rows.Close()

	var tiers []TierAvailability
	for rows.Next() {
		var t TierAvailability
		if err := rows.Scan(&t.TierID, &t.TierName, &t.Price, &t.FreeSeats); err != nil {
			return nil, fmt.Errorf("scan tier availability: %w", err)
		}
		tiers = append(tiers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("tier availability: %w", err)
	}
	return tiers, nil
}

// DeleteExpired lets catalog reads run the lazy expiry sweep before
// computing availability.
func (r *CatalogRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	return deleteExpired(ctx, db(ctx, r.pool), cutoff)
}
