package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ITopGun/TicketSelling-Platform/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReservationRepository struct {
	pool *pgxpool.Pool
}

func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{pool: pool}
}

func (r *ReservationRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *ReservationRepository) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	const query = `SELECT id, name, starts_at, description FROM events WHERE id = $1`

	var e domain.Event
	err := db(ctx, r.pool).QueryRow(ctx, query, eventID).
		Scan(&e.ID, &e.Name, &e.StartsAt, &e.Description)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Event{}, domain.ErrInvalidID
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

func (r *ReservationRepository) GetReservation(ctx context.Context, id string) (domain.Reservation, error) {
	return r.getReservation(ctx, id, false)
}

// GetReservationForUpdate locks the reservation row for the remainder
// of the surrounding transaction.
func (r *ReservationRepository) GetReservationForUpdate(ctx context.Context, id string) (domain.Reservation, error) {
	return r.getReservation(ctx, id, true)
}

func (r *ReservationRepository) getReservation(ctx context.Context, id string, forUpdate bool) (domain.Reservation, error) {
	query := `SELECT id, event_id, status, booked_time, client_id FROM reservations WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var res domain.Reservation
	var status string
	err := db(ctx, r.pool).QueryRow(ctx, query, id).
		Scan(&res.ID, &res.EventID, &status, &res.BookedTime, &res.ClientID)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Reservation{}, domain.ErrInvalidID
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Reservation{}, domain.ErrReservationNotFound
		}
		return domain.Reservation{}, fmt.Errorf("get reservation: %w", err)
	}
	res.Status = domain.ReservationStatus(status)
	return res, nil
}

func (r *ReservationRepository) CreateReservation(ctx context.Context, res domain.Reservation) error {
	const stmt = `
INSERT INTO reservations (id, event_id, status, booked_time)
VALUES ($1, $2, $3, $4)`

	_, err := db(ctx, r.pool).Exec(ctx, stmt, res.ID, res.EventID, res.Status, res.BookedTime)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		if isForeignKeyViolation(err) {
			return domain.ErrEventNotFound
		}
		return fmt.Errorf("create reservation: %w", err)
	}
	return nil
}

// CountEventSeats returns how many of the given seat identifiers exist
// for the event, claimed or not.
func (r *ReservationRepository) CountEventSeats(ctx context.Context, eventID string, seats []string) (int, error) {
	const query = `
SELECT COUNT(*)
FROM tickets
WHERE event_id = $1 AND seat_identifier = ANY($2)`

	var count int
	if err := db(ctx, r.pool).QueryRow(ctx, query, eventID, seats).Scan(&count); err != nil {
		if isInvalidUUID(err) {
			return 0, domain.ErrInvalidID
		}
		return 0, fmt.Errorf("count event seats: %w", err)
	}
	return count, nil
}

// TakenSeats returns the subset of the given seat identifiers already
// claimed by any reservation at the instant of checking. This check is
// advisory; ClaimSeats is the correctness guarantee.
func (r *ReservationRepository) TakenSeats(ctx context.Context, eventID string, seats []string) ([]string, error) {
	const query = `
SELECT seat_identifier
FROM tickets
WHERE event_id = $1 AND seat_identifier = ANY($2) AND reservation_id IS NOT NULL
ORDER BY seat_identifier`

	rows, err := db(ctx, r.pool).Query(ctx, query, eventID, seats)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("taken seats: %w", err)
	}
	defer rows.Close()

	var taken []string
	for rows.Next() {
		var seat string
		if err := rows.Scan(&seat); err != nil {
			return nil, fmt.Errorf("scan taken seat: %w", err)
		}
		taken = append(taken, seat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("taken seats: %w", err)
	}
	return taken, nil
}

// ClaimSeats links the requested seats to the reservation, touching
// only rows that are currently unclaimed. The returned count is the
// number of rows actually claimed; callers must roll the surrounding
// transaction back when it differs from the requested count.
func (r *ReservationRepository) ClaimSeats(ctx context.Context, reservationID, eventID string, seats []string) (int64, error) {
	const stmt = `
UPDATE tickets
SET reservation_id = $1
WHERE event_id = $2 AND seat_identifier = ANY($3) AND reservation_id IS NULL`

	tag, err := db(ctx, r.pool).Exec(ctx, stmt, reservationID, eventID, seats)
	if err != nil {
		if isInvalidUUID(err) {
			return 0, domain.ErrInvalidID
		}
		return 0, fmt.Errorf("claim seats: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *ReservationRepository) SetClientAndStatus(ctx context.Context, reservationID, clientID string, status domain.ReservationStatus) error {
	const stmt = `UPDATE reservations SET client_id = $2, status = $3 WHERE id = $1`

	tag, err := db(ctx, r.pool).Exec(ctx, stmt, reservationID, clientID, status)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("set client and status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrReservationNotFound
	}
	return nil
}

func (r *ReservationRepository) UpdateStatus(ctx context.Context, reservationID string, status domain.ReservationStatus) error {
	const stmt = `UPDATE reservations SET status = $2 WHERE id = $1`

	tag, err := db(ctx, r.pool).Exec(ctx, stmt, reservationID, status)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("update reservation status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrReservationNotFound
	}
	return nil
}

// ReleaseAndDelete frees every ticket held by the reservation and
// removes the reservation row. The target schema has no cascade on
// tickets.reservation_id, so the release is explicit.
func (r *ReservationRepository) ReleaseAndDelete(ctx context.Context, reservationID string) error {
	q := db(ctx, r.pool)

	if _, err := q.Exec(ctx,
		`UPDATE tickets SET reservation_id = NULL WHERE reservation_id = $1`,
		reservationID,
	); err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("release tickets: %w", err)
	}

	tag, err := q.Exec(ctx, `DELETE FROM reservations WHERE id = $1`, reservationID)
	if err != nil {
		return fmt.Errorf("delete reservation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrReservationNotFound
	}
	return nil
}

// DeleteExpired purges every non-PAID reservation booked at or before
// the cutoff, releasing its tickets first. Returns how many
// reservations were removed.
func (r *ReservationRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	return deleteExpired(ctx, db(ctx, r.pool), cutoff)
}

// ReservationTickets lists the reservation's tickets with tier names
// and prices in seat-identifier order.
func (r *ReservationRepository) ReservationTickets(ctx context.Context, reservationID string) ([]domain.ReservationTicket, error) {
	const query = `
SELECT t.seat_identifier, tt.name, tt.price
FROM tickets t
JOIN ticket_tiers tt ON tt.id = t.tier_id
WHERE t.reservation_id = $1
ORDER BY t.seat_identifier`

	rows, err := db(ctx, r.pool).Query(ctx, query, reservationID)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("reservation tickets: %w", err)
	}
	defer rows.Close()

	var tickets []domain.ReservationTicket
	for rows.Next() {
		var t domain.ReservationTicket
		if err := rows.Scan(&t.SeatIdentifier, &t.TierName, &t.Price); err != nil {
			return nil, fmt.Errorf("scan reservation ticket: %w", err)
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reservation tickets: %w", err)
	}
	return tickets, nil
}

// UpsertClient finds or creates a client by email and refreshes the
// mutable name fields. The unique email index keeps concurrent upserts
// from duplicating a client.
func (r *ReservationRepository) UpsertClient(ctx context.Context, c domain.Client) (domain.Client, error) {
	const stmt = `
INSERT INTO clients (id, email, first_name, last_name)
VALUES ($1, $2, $3, $4)
ON CONFLICT (email) DO UPDATE SET first_name = EXCLUDED.first_name, last_name = EXCLUDED.last_name
RETURNING id, email, first_name, last_name`

	var out domain.Client
	err := db(ctx, r.pool).QueryRow(ctx, stmt, c.ID, c.Email, c.FirstName, c.LastName).
		Scan(&out.ID, &out.Email, &out.FirstName, &out.LastName)
	if err != nil {
		return domain.Client{}, fmt.Errorf("upsert client: %w", err)
	}
	return out, nil
}
