package app

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/ITopGun/TicketSelling-Platform/internal/clock"
	"github.com/ITopGun/TicketSelling-Platform/internal/domain"
	"github.com/ITopGun/TicketSelling-Platform/internal/monitoring"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReservationRepository is the storage surface the lifecycle manager
// needs. All mutating calls happen inside WithTx.
type ReservationRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
	GetReservation(ctx context.Context, id string) (domain.Reservation, error)
	GetReservationForUpdate(ctx context.Context, id string) (domain.Reservation, error)
	CreateReservation(ctx context.Context, res domain.Reservation) error
	CountEventSeats(ctx context.Context, eventID string, seats []string) (int, error)
	TakenSeats(ctx context.Context, eventID string, seats []string) ([]string, error)
	ClaimSeats(ctx context.Context, reservationID, eventID string, seats []string) (int64, error)
	SetClientAndStatus(ctx context.Context, reservationID, clientID string, status domain.ReservationStatus) error
	UpdateStatus(ctx context.Context, reservationID string, status domain.ReservationStatus) error
	ReleaseAndDelete(ctx context.Context, reservationID string) error
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
	ReservationTickets(ctx context.Context, reservationID string) ([]domain.ReservationTicket, error)
	UpsertClient(ctx context.Context, c domain.Client) (domain.Client, error)
}

// ReservationService owns the reservation state machine:
// ONGOING -> UNPAID -> PAID, with expiry and cancellation deleting the
// reservation and releasing its tickets.
type ReservationService struct {
	repo    ReservationRepository
	clock   clock.Clock
	logger  *slog.Logger
	holdTTL time.Duration
}

const defaultHoldTTL = 15 * time.Minute

func NewReservationService(repo ReservationRepository, clk clock.Clock, logger *slog.Logger, opts ...ReservationServiceOption) *ReservationService {
	svc := &ReservationService{
		repo:    repo,
		clock:   clk,
		logger:  logger,
		holdTTL: defaultHoldTTL,
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type ReservationServiceOption func(*ReservationService)

// WithHoldDuration overrides the default 15-minute hold window.
func WithHoldDuration(d time.Duration) ReservationServiceOption {
	return func(s *ReservationService) {
		if d > 0 {
			s.holdTTL = d
		}
	}
}

type SelectSeatsInput struct {
	EventID string
	Seats   []string
}

// SelectSeats claims the requested seats and creates an ONGOING
// reservation. The availability check is advisory; the conditional
// claim with a row-count check inside the transaction is what
// guarantees a seat is never held twice.
func (s *ReservationService) SelectSeats(ctx context.Context, in SelectSeatsInput) (domain.Reservation, error) {
	seats := normalizeSeats(in.Seats)
	if len(seats) == 0 {
		return domain.Reservation{}, domain.ErrNoSeatsSelected
	}

	now := s.clock.Now()
	var result domain.Reservation

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.GetEvent(txCtx, in.EventID); err != nil {
			return err
		}

		if err := s.sweep(txCtx, now); err != nil {
			return err
		}

		known, err := s.repo.CountEventSeats(txCtx, in.EventID, seats)
		if err != nil {
			return err
		}
		if known != len(seats) {
			return domain.ErrUnknownSeats
		}

		taken, err := s.repo.TakenSeats(txCtx, in.EventID, seats)
		if err != nil {
			return err
		}
		if len(taken) > 0 {
			return &domain.SeatsTakenError{Seats: taken}
		}

		res := domain.Reservation{
			ID:         uuid.NewString(),
			EventID:    in.EventID,
			Status:     domain.ReservationOngoing,
			BookedTime: now,
		}
		if err := s.repo.CreateReservation(txCtx, res); err != nil {
			return err
		}

		claimed, err := s.repo.ClaimSeats(txCtx, res.ID, in.EventID, seats)
		if err != nil {
			return err
		}
		if claimed != int64(len(seats)) {
			// A concurrent claim won between the check and the update.
			taken, err := s.repo.TakenSeats(txCtx, in.EventID, seats)
			if err != nil {
				return err
			}
			if len(taken) == 0 {
				return domain.ErrSeatsUnavailable
			}
			return &domain.SeatsTakenError{Seats: taken}
		}

		result = res
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrSeatsUnavailable) {
			monitoring.SeatConflict()
		}
		return domain.Reservation{}, err
	}

	monitoring.ReservationCreated()
	return result, nil
}

// RemainingHoldTime reports how long the hold is still valid. When the
// hold has lapsed the stale reservation is purged and
// ErrReservationExpired is returned.
func (s *ReservationService) RemainingHoldTime(ctx context.Context, reservationID string) (time.Duration, error) {
	now := s.clock.Now()
	res, err := s.repo.GetReservation(ctx, reservationID)
	if err != nil {
		return 0, err
	}
	if res.Status == domain.ReservationPaid {
		return 0, domain.ErrReservationPaid
	}
	if res.Expired(now, s.holdTTL) {
		if err := s.expire(ctx, res.ID); err != nil {
			return 0, err
		}
		return 0, domain.ErrReservationExpired
	}
	return res.RemainingHold(now, s.holdTTL), nil
}

type AttachContactInput struct {
	ReservationID string
	Email         string
	FirstName     string
	LastName      string
}

// AttachContact resolves or creates the client by email, attaches it
// and moves the reservation to UNPAID. Repeating the call with the
// same data before expiry yields the same state and no duplicate
// client. An expired reservation is purged and reported as expired.
func (s *ReservationService) AttachContact(ctx context.Context, in AttachContactInput) (domain.Reservation, error) {
	if in.Email == "" {
		return domain.Reservation{}, domain.ErrEmailRequired
	}

	now := s.clock.Now()
	var result domain.Reservation

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		res, err := s.repo.GetReservationForUpdate(txCtx, in.ReservationID)
		if err != nil {
			return err
		}
		if res.Status == domain.ReservationPaid {
			return domain.ErrReservationPaid
		}
		if res.Expired(now, s.holdTTL) {
			if err := s.repo.ReleaseAndDelete(txCtx, res.ID); err != nil {
				return err
			}
			monitoring.ReservationsExpired(1)
			return domain.ErrReservationExpired
		}

		client, err := s.repo.UpsertClient(txCtx, domain.Client{
			ID:        uuid.NewString(),
			Email:     in.Email,
			FirstName: in.FirstName,
			LastName:  in.LastName,
		})
		if err != nil {
			return err
		}

		if err := s.repo.SetClientAndStatus(txCtx, res.ID, client.ID, domain.ReservationUnpaid); err != nil {
			return err
		}

		res.Status = domain.ReservationUnpaid
		res.ClientID = &client.ID
		result = res
		return nil
	})
	if err != nil {
		return domain.Reservation{}, err
	}
	return result, nil
}

// ConfirmPayment finalizes an UNPAID reservation on a payment-success
// signal. No expiry check applies once contact details are attached.
// Confirming an already PAID reservation is a no-op success.
func (s *ReservationService) ConfirmPayment(ctx context.Context, reservationID string) (domain.Reservation, error) {
	var result domain.Reservation

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		res, err := s.repo.GetReservationForUpdate(txCtx, reservationID)
		if err != nil {
			return err
		}

		switch res.Status {
		case domain.ReservationPaid:
			result = res
			return nil
		case domain.ReservationOngoing:
			return domain.ErrNoContactAttached
		}

		if err := s.repo.UpdateStatus(txCtx, res.ID, domain.ReservationPaid); err != nil {
			return err
		}
		res.Status = domain.ReservationPaid
		result = res
		return nil
	})
	if err != nil {
		return domain.Reservation{}, err
	}

	monitoring.ReservationPaid()
	return result, nil
}

// Cancel deletes an ONGOING or UNPAID reservation and releases its
// tickets. PAID is terminal: cancellation is disallowed.
func (s *ReservationService) Cancel(ctx context.Context, reservationID string) error {
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		res, err := s.repo.GetReservationForUpdate(txCtx, reservationID)
		if err != nil {
			return err
		}
		if res.Status == domain.ReservationPaid {
			return domain.ErrReservationPaid
		}
		return s.repo.ReleaseAndDelete(txCtx, res.ID)
	})
	if err != nil {
		return err
	}

	monitoring.ReservationCanceled()
	return nil
}

// ReservationDetails lists the reservation's tickets in seat order and
// the total price.
type ReservationDetails struct {
	Reservation domain.Reservation
	Tickets     []domain.ReservationTicket
	TotalPrice  decimal.Decimal
}

func (s *ReservationService) ReservationDetails(ctx context.Context, reservationID string) (ReservationDetails, error) {
	res, err := s.repo.GetReservation(ctx, reservationID)
	if err != nil {
		return ReservationDetails{}, err
	}

	tickets, err := s.repo.ReservationTickets(ctx, reservationID)
	if err != nil {
		return ReservationDetails{}, err
	}

	total := decimal.Zero
	for _, t := range tickets {
		total = total.Add(t.Price)
	}

	return ReservationDetails{
		Reservation: res,
		Tickets:     tickets,
		TotalPrice:  total,
	}, nil
}

// SweepExpired runs the expiry sweep on demand, outside any seat
// operation. Used by the optional periodic sweeper.
func (s *ReservationService) SweepExpired(ctx context.Context) (int64, error) {
	now := s.clock.Now()
	var removed int64
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		n, err := s.repo.DeleteExpired(txCtx, now.Add(-s.holdTTL))
		if err != nil {
			return err
		}
		removed = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	monitoring.ReservationsExpired(removed)
	return removed, nil
}

func (s *ReservationService) sweep(ctx context.Context, now time.Time) error {
	removed, err := s.repo.DeleteExpired(ctx, now.Add(-s.holdTTL))
	if err != nil {
		return err
	}
	if removed > 0 {
		s.logger.Info("expired reservations purged", "count", removed)
		monitoring.ReservationsExpired(removed)
	}
	return nil
}

// expire purges a lapsed reservation. The status is re-read under a
// row lock first: a payment that committed after the caller's
// unlocked read leaves the reservation PAID, which is terminal.
func (s *ReservationService) expire(ctx context.Context, reservationID string) error {
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		res, err := s.repo.GetReservationForUpdate(txCtx, reservationID)
		if err != nil {
			return err
		}
		if res.Status == domain.ReservationPaid {
			return domain.ErrReservationPaid
		}
		return s.repo.ReleaseAndDelete(txCtx, res.ID)
	})
	switch {
	case err == nil:
		monitoring.ReservationsExpired(1)
		return nil
	case errors.Is(err, domain.ErrReservationNotFound):
		// Already swept by a concurrent request.
		return nil
	default:
		return err
	}
}

func normalizeSeats(seats []string) []string {
	seen := make(map[string]struct{}, len(seats))
	out := make([]string, 0, len(seats))
	for _, seat := range seats {
		if seat == "" {
			continue
		}
		if _, dup := seen[seat]; dup {
			continue
		}
		seen[seat] = struct{}{}
		out = append(out, seat)
	}
	sort.Strings(out)
	return out
}
