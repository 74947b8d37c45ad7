package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/ITopGun/TicketSelling-Platform/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ClientRepository maps contact identity to reservation history.
type ClientRepository struct {
	pool *pgxpool.Pool
}

func NewClientRepository(pool *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{pool: pool}
}

func (r *ClientRepository) GetClient(ctx context.Context, clientID string) (domain.Client, error) {
	const query = `SELECT id, email, first_name, last_name FROM clients WHERE id = $1`

	var c domain.Client
	err := db(ctx, r.pool).QueryRow(ctx, query, clientID).
		Scan(&c.ID, &c.Email, &c.FirstName, &c.LastName)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Client{}, domain.ErrInvalidID
		}
		return domain.Client{}, mapNoRows(err, domain.ErrClientNotFound, "get client")
	}
	return c, nil
}

// FindByEmail looks a client up by exact, case-sensitive email match.
func (r *ClientRepository) FindByEmail(ctx context.Context, email string) (domain.Client, error) {
	const query = `SELECT id, email, first_name, last_name FROM clients WHERE email = $1`

	var c domain.Client
	err := db(ctx, r.pool).QueryRow(ctx, query, email).
		Scan(&c.ID, &c.Email, &c.FirstName, &c.LastName)
	if err != nil {
		return domain.Client{}, mapNoRows(err, domain.ErrClientNotFound, "find client by email")
	}
	return c, nil
}

func (r *ClientRepository) ReservationExists(ctx context.Context, reservationID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM reservations WHERE id = $1)`

	var exists bool
	if err := db(ctx, r.pool).QueryRow(ctx, query, reservationID).Scan(&exists); err != nil {
		if isInvalidUUID(err) {
			return false, domain.ErrInvalidID
		}
		return false, fmt.Errorf("reservation exists: %w", err)
	}
	return exists, nil
}

// ListClientReservations returns the client's history, most recent
// event date first, ties broken by reservation id. Active means the
// event starts after the given instant.
func (r *ClientRepository) ListClientReservations(ctx context.Context, clientID string, now time.Time) ([]domain.ClientReservation, error) {
	const query = `
SELECT r.id, r.status, e.id, e.name, e.starts_at, e.starts_at > $2 AS active
FROM reservations r
JOIN events e ON e.id = r.event_id
WHERE r.client_id = $1
ORDER BY e.starts_at DESC, r.id ASC`

	rows, err := db(ctx, r.pool).Query(ctx, query, clientID, now)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list client reservations: %w", err)
	}
	defer rows.Close()

	var out []domain.ClientReservation
	for rows.Next() {
		var cr domain.ClientReservation
		var status string
		if err := rows.Scan(&cr.ReservationID, &status, &cr.EventID, &cr.EventName, &cr.EventStartsAt, &cr.Active); err != nil {
			return nil, fmt.Errorf("scan client reservation: %w", err)
		}
		cr.Status = domain.ReservationStatus(status)
		out = append(out, cr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list client reservations: %w", err)
	}
	return out, nil
}
