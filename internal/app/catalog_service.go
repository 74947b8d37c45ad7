package app

import (
	"context"
	"time"

	"github.com/ITopGun/TicketSelling-Platform/internal/clock"
	"github.com/ITopGun/TicketSelling-Platform/internal/domain"
	"github.com/ITopGun/TicketSelling-Platform/internal/monitoring"
	"github.com/ITopGun/TicketSelling-Platform/internal/storage/postgres"
	"github.com/shopspring/decimal"
)

// seatRowLength is how many seats go into one presentation row.
const seatRowLength = 10

type CatalogRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
	ListEventSeats(ctx context.Context, eventID string) ([]postgres.TierSeatRow, error)
	TierAvailability(ctx context.Context, eventID string) ([]postgres.TierAvailability, error)
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// CatalogService produces the seat layout for an event: tickets
// grouped by tier in descending price order, chunked into fixed-size
// rows, plus per-tier free-seat counts. Read-only apart from the lazy
// expiry sweep that keeps availability honest.
type CatalogService struct {
	repo    CatalogRepository
	clock   clock.Clock
	holdTTL time.Duration
}

func NewCatalogService(repo CatalogRepository, clk clock.Clock, opts ...CatalogServiceOption) *CatalogService {
	svc := &CatalogService{
		repo:    repo,
		clock:   clk,
		holdTTL: defaultHoldTTL,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type CatalogServiceOption func(*CatalogService)

// WithCatalogHoldDuration keeps the catalog's sweep cutoff in step
// with the reservation service's hold window.
func WithCatalogHoldDuration(d time.Duration) CatalogServiceOption {
	return func(s *CatalogService) {
		if d > 0 {
			s.holdTTL = d
		}
	}
}

// Seat is one position in the layout.
type Seat struct {
	SeatIdentifier string
	Free           bool
}

// TierSeatMap is one price tier's block of the layout.
type TierSeatMap struct {
	TierID    string
	Name      string
	Price     decimal.Decimal
	FreeSeats int
	Rows      [][]Seat
}

// SeatMap describes an event's full seat layout.
type SeatMap struct {
	Event domain.Event
	Tiers []TierSeatMap
}

func (s *CatalogService) SeatMap(ctx context.Context, eventID string) (SeatMap, error) {
	now := s.clock.Now()
	var out SeatMap

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		event, err := s.repo.GetEvent(txCtx, eventID)
		if err != nil {
			return err
		}

		removed, err := s.repo.DeleteExpired(txCtx, now.Add(-s.holdTTL))
		if err != nil {
			return err
		}
		monitoring.ReservationsExpired(removed)

		seats, err := s.repo.ListEventSeats(txCtx, eventID)
		if err != nil {
			return err
		}
		counts, err := s.repo.TierAvailability(txCtx, eventID)
		if err != nil {
			return err
		}

		out = SeatMap{
			Event: event,
			Tiers: buildTiers(seats, counts),
		}
		return nil
	})
	if err != nil {
		return SeatMap{}, err
	}
	return out, nil
}

// buildTiers relies on the repository's ordering: tiers by descending
// price, seats by identifier within each tier.
func buildTiers(seats []postgres.TierSeatRow, counts []postgres.TierAvailability) []TierSeatMap {
	free := make(map[string]int, len(counts))
	for _, c := range counts {
		free[c.TierID] = c.FreeSeats
	}

	var tiers []TierSeatMap
	for _, row := range seats {
		if len(tiers) == 0 || tiers[len(tiers)-1].TierID != row.TierID {
			tiers = append(tiers, TierSeatMap{
				TierID:    row.TierID,
				Name:      row.TierName,
				Price:     row.Price,
				FreeSeats: free[row.TierID],
			})
		}
		tier := &tiers[len(tiers)-1]

		seat := Seat{SeatIdentifier: row.SeatIdentifier, Free: row.Free}
		if n := len(tier.Rows); n == 0 || len(tier.Rows[n-1]) == seatRowLength {
			tier.Rows = append(tier.Rows, []Seat{seat})
		} else {
			tier.Rows[n-1] = append(tier.Rows[n-1], seat)
		}
	}
	return tiers
}
