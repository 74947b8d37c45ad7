package app

import (
	"context"
	"time"

	"github.com/ITopGun/TicketSelling-Platform/internal/clock"
	"github.com/ITopGun/TicketSelling-Platform/internal/domain"
)

type ClientRepository interface {
	GetClient(ctx context.Context, clientID string) (domain.Client, error)
	FindByEmail(ctx context.Context, email string) (domain.Client, error)
	ReservationExists(ctx context.Context, reservationID string) (bool, error)
	ListClientReservations(ctx context.Context, clientID string, now time.Time) ([]domain.ClientReservation, error)
}

// ClientService resolves lookups from the "find my reservation" form
// and exposes a client's reservation history.
type ClientService struct {
	repo  ClientRepository
	clock clock.Clock
}

func NewClientService(repo ClientRepository, clk clock.Clock) *ClientService {
	return &ClientService{
		repo:  repo,
		clock: clk,
	}
}

// LookupKind tells the caller where to send the user next.
type LookupKind string

const (
	LookupReservation LookupKind = "reservation"
	LookupClient      LookupKind = "client"
)

// LookupTarget is the redirect target resolved from a reservation id
// or an email address.
type LookupTarget struct {
	Kind LookupKind
	ID   string
}

// FindReservationOrClient resolves a lookup by reservation id when one
// is given, otherwise by email. An unknown email is a user-input
// error, surfaced as ErrClientNotFound.
func (s *ClientService) FindReservationOrClient(ctx context.Context, reservationID, email string) (LookupTarget, error) {
	if reservationID != "" {
		exists, err := s.repo.ReservationExists(ctx, reservationID)
		if err != nil {
			return LookupTarget{}, err
		}
		if !exists {
			return LookupTarget{}, domain.ErrReservationNotFound
		}
		return LookupTarget{Kind: LookupReservation, ID: reservationID}, nil
	}

	if email == "" {
		return LookupTarget{}, domain.ErrLookupRequired
	}

	client, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return LookupTarget{}, err
	}
	return LookupTarget{Kind: LookupClient, ID: client.ID}, nil
}

// ListClientReservations returns the client's history ordered by most
// recent event date first, each entry flagged active while its event
// is still in the future.
func (s *ClientService) ListClientReservations(ctx context.Context, clientID string) ([]domain.ClientReservation, error) {
	if _, err := s.repo.GetClient(ctx, clientID); err != nil {
		return nil, err
	}
	return s.repo.ListClientReservations(ctx, clientID, s.clock.Now())
}
