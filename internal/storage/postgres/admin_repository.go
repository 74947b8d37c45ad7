package postgres

import (
	"context"
	"fmt"

	"github.com/ITopGun/TicketSelling-Platform/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AdminRepository manages the immutable-per-event inventory: events,
// price tiers and pre-created tickets.
type AdminRepository struct {
	pool *pgxpool.Pool
}

func NewAdminRepository(pool *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{pool: pool}
}

func (r *AdminRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *AdminRepository) CreateEvent(ctx context.Context, event domain.Event) error {
	const stmt = `
INSERT INTO events (id, name, starts_at, description)
VALUES ($1, $2, $3, $4)`
	_, err := db(ctx, r.pool).Exec(ctx, stmt, event.ID, event.Name, event.StartsAt, event.Description)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (r *AdminRepository) ListEvents(ctx context.Context) ([]domain.Event, error) {
	const query = `
SELECT id, name, starts_at, description
FROM events
ORDER BY starts_at ASC, id ASC`
	rows, err := db(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var event domain.Event
		if err := rows.Scan(&event.ID, &event.Name, &event.StartsAt, &event.Description); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, event)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate events: %w", rows.Err())
	}
	return events, nil
}

func (r *AdminRepository) CreateTier(ctx context.Context, tier domain.TicketTier) error {
	const stmt = `
INSERT INTO ticket_tiers (id, event_id, name, price)
VALUES ($1, $2, $3, $4)`
	_, err := db(ctx, r.pool).Exec(ctx, stmt, tier.ID, tier.EventID, tier.Name, tier.Price)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		if isUniqueViolation(err) {
			return domain.ErrTierAlreadyExists
		}
		if isForeignKeyViolation(err) {
			return domain.ErrEventNotFound
		}
		return fmt.Errorf("create tier: %w", err)
	}
	return nil
}

// CreateTickets loads seat inventory in bulk. Duplicate seat
// identifiers within the event are rejected as a whole; the caller's
// transaction rolls everything back.
func (r *AdminRepository) CreateTickets(ctx context.Context, tickets []domain.Ticket) error {
	const stmt = `
INSERT INTO tickets (id, event_id, seat_identifier, tier_id)
VALUES ($1, $2, $3, $4)`

	q := db(ctx, r.pool)
	for _, t := range tickets {
		if _, err := q.Exec(ctx, stmt, t.ID, t.EventID, t.SeatIdentifier, t.TierID); err != nil {
			if isInvalidUUID(err) {
				return domain.ErrInvalidID
			}
			if isUniqueViolation(err) {
				return domain.ErrDuplicateSeat
			}
			if isForeignKeyViolation(err) {
				return domain.ErrTierNotFound
			}
			return fmt.Errorf("create ticket %s: %w", t.SeatIdentifier, err)
		}
	}
	return nil
}

func (r *AdminRepository) GetTier(ctx context.Context, tierID string) (domain.TicketTier, error) {
	const query = `SELECT id, event_id, name, price FROM ticket_tiers WHERE id = $1`

	var tier domain.TicketTier
	err := db(ctx, r.pool).QueryRow(ctx, query, tierID).
		Scan(&tier.ID, &tier.EventID, &tier.Name, &tier.Price)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.TicketTier{}, domain.ErrInvalidID
		}
		return domain.TicketTier{}, mapNoRows(err, domain.ErrTierNotFound, "get tier")
	}
	return tier, nil
}
