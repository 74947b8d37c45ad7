package app

import (
	"context"
	"time"

	"github.com/ITopGun/TicketSelling-Platform/internal/clock"
	"github.com/ITopGun/TicketSelling-Platform/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AdminRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateEvent(ctx context.Context, event domain.Event) error
	ListEvents(ctx context.Context) ([]domain.Event, error)
	CreateTier(ctx context.Context, tier domain.TicketTier) error
	GetTier(ctx context.Context, tierID string) (domain.TicketTier, error)
	CreateTickets(ctx context.Context, tickets []domain.Ticket) error
}

// AdminService loads the sellable inventory: events, their price
// tiers, and the pre-created tickets the reservation flow claims.
type AdminService struct {
	repo  AdminRepository
	clock clock.Clock
}

func NewAdminService(repo AdminRepository, clk clock.Clock) *AdminService {
	return &AdminService{
		repo:  repo,
		clock: clk,
	}
}

type CreateEventInput struct {
	Name        string
	StartsAt    *time.Time
	Description string
}

func (s *AdminService) CreateEvent(ctx context.Context, in CreateEventInput) (domain.Event, error) {
	if in.Name == "" {
		return domain.Event{}, domain.ErrEventNameRequired
	}
	startsAt := s.clock.Now()
	if in.StartsAt != nil {
		startsAt = *in.StartsAt
	}

	event := domain.Event{
		ID:          uuid.NewString(),
		Name:        in.Name,
		StartsAt:    startsAt,
		Description: in.Description,
	}

	if err := s.repo.CreateEvent(ctx, event); err != nil {
		return domain.Event{}, err
	}
	return event, nil
}

func (s *AdminService) ListEvents(ctx context.Context) ([]domain.Event, error) {
	return s.repo.ListEvents(ctx)
}

type CreateTierInput struct {
	EventID string
	Name    string
	Price   decimal.Decimal
}

func (s *AdminService) CreateTier(ctx context.Context, in CreateTierInput) (domain.TicketTier, error) {
	if in.EventID == "" {
		return domain.TicketTier{}, domain.ErrInvalidID
	}
	if in.Name == "" {
		return domain.TicketTier{}, domain.ErrTierNameRequired
	}
	if in.Price.IsNegative() {
		return domain.TicketTier{}, domain.ErrInvalidPrice
	}

	tier := domain.TicketTier{
		ID:      uuid.NewString(),
		EventID: in.EventID,
		Name:    in.Name,
		Price:   in.Price,
	}

	if err := s.repo.CreateTier(ctx, tier); err != nil {
		return domain.TicketTier{}, err
	}
	return tier, nil
}

type CreateTicketsInput struct {
	EventID         string
	TierID          string
	SeatIdentifiers []string
}

// CreateTickets bulk-loads seats for one tier. The whole batch is one
// transaction; a duplicate seat identifier rejects the batch.
func (s *AdminService) CreateTickets(ctx context.Context, in CreateTicketsInput) ([]domain.Ticket, error) {
	if in.EventID == "" || in.TierID == "" {
		return nil, domain.ErrInvalidID
	}
	seats := normalizeSeats(in.SeatIdentifiers)
	if len(seats) == 0 {
		return nil, domain.ErrNoSeatsSelected
	}
	if len(seats) != len(in.SeatIdentifiers) {
		return nil, domain.ErrDuplicateSeat
	}

	var tickets []domain.Ticket
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		tier, err := s.repo.GetTier(txCtx, in.TierID)
		if err != nil {
			return err
		}
		if tier.EventID != in.EventID {
			return domain.ErrTierNotFound
		}

		tickets = make([]domain.Ticket, 0, len(seats))
		for _, seat := range seats {
			tickets = append(tickets, domain.Ticket{
				ID:             uuid.NewString(),
				EventID:        in.EventID,
				SeatIdentifier: seat,
				TierID:         in.TierID,
			})
		}
		return s.repo.CreateTickets(txCtx, tickets)
	})
	if err != nil {
		return nil, err
	}
	return tickets, nil
}
