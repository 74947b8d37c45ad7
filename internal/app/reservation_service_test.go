package app

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/ITopGun/TicketSelling-Platform/internal/clock"
	"github.com/ITopGun/TicketSelling-Platform/internal/domain"
	"github.com/shopspring/decimal"
)

func TestReservationService_SelectSeats(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("claims free seats and creates ongoing reservation", func(t *testing.T) {
		t.Parallel()
		repo := newFakeRepo("Expo", "A1", "A2", "A3")
		clk := clock.NewManual(start)
		svc := NewReservationService(repo, clk, nil)

		res, err := svc.SelectSeats(context.Background(), SelectSeatsInput{
			EventID: "event-1",
			Seats:   []string{"A1", "A2"},
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if res.Status != domain.ReservationOngoing {
			t.Fatalf("expected status ONGOING, got %s", res.Status)
		}
		if !res.BookedTime.Equal(start) {
			t.Fatalf("expected booked_time %v, got %v", start, res.BookedTime)
		}
		if got := repo.seatsHeldBy(res.ID); len(got) != 2 || got[0] != "A1" || got[1] != "A2" {
			t.Fatalf("expected seats A1, A2 held, got %v", got)
		}
		if repo.seatFree("A3") != true {
			t.Fatalf("expected A3 to stay free")
		}
	})

	t.Run("reports which seats are taken", func(t *testing.T) {
		t.Parallel()
		repo := newFakeRepo("Expo", "A1", "A2")
		clk := clock.NewManual(start)
		svc := NewReservationService(repo, clk, nil)

		if _, err := svc.SelectSeats(context.Background(), SelectSeatsInput{
			EventID: "event-1",
			Seats:   []string{"A1"},
		}); err != nil {
			t.Fatalf("seed claim failed: %v", err)
		}

		_, err := svc.SelectSeats(context.Background(), SelectSeatsInput{
			EventID: "event-1",
			Seats:   []string{"A1", "A2"},
		})

		var taken *domain.SeatsTakenError
		if !errors.As(err, &taken) {
			t.Fatalf("expected SeatsTakenError, got %v", err)
		}
		if len(taken.Seats) != 1 || taken.Seats[0] != "A1" {
			t.Fatalf("expected taken seats [A1], got %v", taken.Seats)
		}
		if !errors.Is(err, domain.ErrSeatsUnavailable) {
			t.Fatalf("expected error to unwrap to ErrSeatsUnavailable")
		}
		if !repo.seatFree("A2") {
			t.Fatalf("expected A2 released after failed claim")
		}
		if repo.reservationCount() != 1 {
			t.Fatalf("expected only the first reservation to exist, got %d", repo.reservationCount())
		}
	})

	t.Run("rejects unknown seats", func(t *testing.T) {
		t.Parallel()
		repo := newFakeRepo("Expo", "A1")
		svc := NewReservationService(repo, clock.NewManual(start), nil)

		_, err := svc.SelectSeats(context.Background(), SelectSeatsInput{
			EventID: "event-1",
			Seats:   []string{"A1", "Z9"},
		})
		if !errors.Is(err, domain.ErrUnknownSeats) {
			t.Fatalf("expected ErrUnknownSeats, got %v", err)
		}
	})

	t.Run("rejects empty selection", func(t *testing.T) {
		t.Parallel()
		repo := newFakeRepo("Expo", "A1")
		svc := NewReservationService(repo, clock.NewManual(start), nil)

		_, err := svc.SelectSeats(context.Background(), SelectSeatsInput{
			EventID: "event-1",
			Seats:   []string{"", ""},
		})
		if !errors.Is(err, domain.ErrNoSeatsSelected) {
			t.Fatalf("expected ErrNoSeatsSelected, got %v", err)
		}
	})

	t.Run("unknown event", func(t *testing.T) {
		t.Parallel()
		repo := newFakeRepo("Expo", "A1")
		svc := NewReservationService(repo, clock.NewManual(start), nil)

		_, err := svc.SelectSeats(context.Background(), SelectSeatsInput{
			EventID: "event-9",
			Seats:   []string{"A1"},
		})
		if !errors.Is(err, domain.ErrEventNotFound) {
			t.Fatalf("expected ErrEventNotFound, got %v", err)
		}
	})

	t.Run("storage failure on the lost-race re-check propagates", func(t *testing.T) {
		t.Parallel()
		repo := &lostRaceRepo{fakeReservationRepo: newFakeRepo("Expo", "A1")}
		svc := NewReservationService(repo, clock.NewManual(start), nil)

		_, err := svc.SelectSeats(context.Background(), SelectSeatsInput{
			EventID: "event-1",
			Seats:   []string{"A1"},
		})
		if !errors.Is(err, errStorageDown) {
			t.Fatalf("expected the storage error, got %v", err)
		}
		if errors.Is(err, domain.ErrSeatsUnavailable) {
			t.Fatalf("storage failure must not surface as a seat conflict")
		}
	})

	t.Run("expired hold is reclaimed by the sweep", func(t *testing.T) {
		t.Parallel()
		repo := newFakeRepo("Expo", "A1", "A2")
		clk := clock.NewManual(start)
		svc := NewReservationService(repo, clk, nil)
		ctx := context.Background()

		first, err := svc.SelectSeats(ctx, SelectSeatsInput{EventID: "event-1", Seats: []string{"A1"}})
		if err != nil {
			t.Fatalf("first claim failed: %v", err)
		}

		if _, err := svc.SelectSeats(ctx, SelectSeatsInput{EventID: "event-1", Seats: []string{"A1"}}); !errors.Is(err, domain.ErrSeatsUnavailable) {
			t.Fatalf("expected ErrSeatsUnavailable while hold active, got %v", err)
		}

		clk.Advance(16 * time.Minute)

		second, err := svc.SelectSeats(ctx, SelectSeatsInput{EventID: "event-1", Seats: []string{"A1"}})
		if err != nil {
			t.Fatalf("expected claim to succeed after expiry, got %v", err)
		}
		if second.ID == first.ID {
			t.Fatalf("expected a new reservation")
		}
		if _, err := svc.RemainingHoldTime(ctx, first.ID); !errors.Is(err, domain.ErrReservationNotFound) {
			t.Fatalf("expected first reservation purged, got %v", err)
		}
	})
}

func TestReservationService_RemainingHoldTime(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := newFakeRepo("Expo", "A1")
	clk := clock.NewManual(start)
	svc := NewReservationService(repo, clk, nil)
	ctx := context.Background()

	res, err := svc.SelectSeats(ctx, SelectSeatsInput{EventID: "event-1", Seats: []string{"A1"}})
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	left, err := svc.RemainingHoldTime(ctx, res.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if left != 15*time.Minute {
		t.Fatalf("expected 15m left, got %v", left)
	}

	clk.Advance(5 * time.Minute)
	shorter, err := svc.RemainingHoldTime(ctx, res.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if shorter != 10*time.Minute {
		t.Fatalf("expected 10m left, got %v", shorter)
	}
	if shorter >= left {
		t.Fatalf("expected remaining time to decrease")
	}

	// Exactly at the boundary the hold has lapsed.
	clk.Advance(10 * time.Minute)
	if _, err := svc.RemainingHoldTime(ctx, res.ID); !errors.Is(err, domain.ErrReservationExpired) {
		t.Fatalf("expected ErrReservationExpired at the boundary, got %v", err)
	}
	if !repo.seatFree("A1") {
		t.Fatalf("expected A1 released after expiry")
	}
	if _, err := svc.RemainingHoldTime(ctx, res.ID); !errors.Is(err, domain.ErrReservationNotFound) {
		t.Fatalf("expected reservation purged, got %v", err)
	}
}

func TestReservationService_ExpirePreservesConcurrentPayment(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := &racingPaymentRepo{fakeReservationRepo: newFakeRepo("Expo", "A1")}
	clk := clock.NewManual(start)
	svc := NewReservationService(repo, clk, nil)
	ctx := context.Background()

	res, err := svc.SelectSeats(ctx, SelectSeatsInput{EventID: "event-1", Seats: []string{"A1"}})
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	// A payment commits between the unlocked read and the purge.
	repo.armed = true
	clk.Advance(16 * time.Minute)

	if _, err := svc.RemainingHoldTime(ctx, res.ID); !errors.Is(err, domain.ErrReservationPaid) {
		t.Fatalf("expected ErrReservationPaid, got %v", err)
	}

	kept, err := repo.GetReservation(ctx, res.ID)
	if err != nil {
		t.Fatalf("expected the paid reservation kept, got %v", err)
	}
	if kept.Status != domain.ReservationPaid {
		t.Fatalf("expected status PAID, got %s", kept.Status)
	}
	if repo.seatFree("A1") {
		t.Fatalf("expected the paid seat to stay claimed")
	}
}

func TestReservationService_AttachContact(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	setup := func(t *testing.T) (*ReservationService, *fakeReservationRepo, *clock.Manual, domain.Reservation) {
		t.Helper()
		repo := newFakeRepo("Expo", "A1", "A2")
		clk := clock.NewManual(start)
		svc := NewReservationService(repo, clk, nil)
		res, err := svc.SelectSeats(context.Background(), SelectSeatsInput{EventID: "event-1", Seats: []string{"A1"}})
		if err != nil {
			t.Fatalf("claim failed: %v", err)
		}
		return svc, repo, clk, res
	}

	t.Run("attaches client and moves to unpaid", func(t *testing.T) {
		t.Parallel()
		svc, repo, _, res := setup(t)

		updated, err := svc.AttachContact(context.Background(), AttachContactInput{
			ReservationID: res.ID,
			Email:         "a@x.com",
			FirstName:     "A",
			LastName:      "B",
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if updated.Status != domain.ReservationUnpaid {
			t.Fatalf("expected status UNPAID, got %s", updated.Status)
		}
		if updated.ClientID == nil {
			t.Fatalf("expected client attached")
		}
		if repo.clientCount() != 1 {
			t.Fatalf("expected one client, got %d", repo.clientCount())
		}
	})

	t.Run("is idempotent and never duplicates the client", func(t *testing.T) {
		t.Parallel()
		svc, repo, _, res := setup(t)
		ctx := context.Background()
		in := AttachContactInput{ReservationID: res.ID, Email: "a@x.com", FirstName: "A", LastName: "B"}

		first, err := svc.AttachContact(ctx, in)
		if err != nil {
			t.Fatalf("first attach failed: %v", err)
		}
		second, err := svc.AttachContact(ctx, in)
		if err != nil {
			t.Fatalf("second attach failed: %v", err)
		}
		if second.Status != domain.ReservationUnpaid {
			t.Fatalf("expected status UNPAID, got %s", second.Status)
		}
		if *first.ClientID != *second.ClientID {
			t.Fatalf("expected the same client on both calls")
		}
		if repo.clientCount() != 1 {
			t.Fatalf("expected one client, got %d", repo.clientCount())
		}
	})

	t.Run("expired reservation is purged and reported", func(t *testing.T) {
		t.Parallel()
		svc, repo, clk, res := setup(t)
		clk.Advance(16 * time.Minute)

		_, err := svc.AttachContact(context.Background(), AttachContactInput{
			ReservationID: res.ID,
			Email:         "a@x.com",
		})
		if !errors.Is(err, domain.ErrReservationExpired) {
			t.Fatalf("expected ErrReservationExpired, got %v", err)
		}
		if !repo.seatFree("A1") {
			t.Fatalf("expected A1 released")
		}
		if repo.reservationCount() != 0 {
			t.Fatalf("expected reservation purged")
		}
	})

	t.Run("requires an email", func(t *testing.T) {
		t.Parallel()
		svc, _, _, res := setup(t)

		_, err := svc.AttachContact(context.Background(), AttachContactInput{ReservationID: res.ID})
		if !errors.Is(err, domain.ErrEmailRequired) {
			t.Fatalf("expected ErrEmailRequired, got %v", err)
		}
	})

	t.Run("updates name fields on an existing client", func(t *testing.T) {
		t.Parallel()
		svc, repo, _, res := setup(t)
		ctx := context.Background()

		if _, err := svc.AttachContact(ctx, AttachContactInput{ReservationID: res.ID, Email: "a@x.com", FirstName: "A", LastName: "B"}); err != nil {
			t.Fatalf("attach failed: %v", err)
		}
		if _, err := svc.AttachContact(ctx, AttachContactInput{ReservationID: res.ID, Email: "a@x.com", FirstName: "Anna", LastName: "Bell"}); err != nil {
			t.Fatalf("attach failed: %v", err)
		}

		c := repo.clientByEmail("a@x.com")
		if c.FirstName != "Anna" || c.LastName != "Bell" {
			t.Fatalf("expected updated names, got %+v", c)
		}
	})
}

func TestReservationService_ConfirmPayment(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	setup := func(t *testing.T) (*ReservationService, *fakeReservationRepo, domain.Reservation) {
		t.Helper()
		repo := newFakeRepo("Expo", "A1")
		svc := NewReservationService(repo, clock.NewManual(start), nil)
		res, err := svc.SelectSeats(context.Background(), SelectSeatsInput{EventID: "event-1", Seats: []string{"A1"}})
		if err != nil {
			t.Fatalf("claim failed: %v", err)
		}
		return svc, repo, res
	}

	t.Run("unpaid becomes paid", func(t *testing.T) {
		t.Parallel()
		svc, _, res := setup(t)
		ctx := context.Background()

		if _, err := svc.AttachContact(ctx, AttachContactInput{ReservationID: res.ID, Email: "a@x.com"}); err != nil {
			t.Fatalf("attach failed: %v", err)
		}

		paid, err := svc.ConfirmPayment(ctx, res.ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if paid.Status != domain.ReservationPaid {
			t.Fatalf("expected status PAID, got %s", paid.Status)
		}
	})

	t.Run("confirming an already paid reservation is a no-op", func(t *testing.T) {
		t.Parallel()
		svc, _, res := setup(t)
		ctx := context.Background()

		if _, err := svc.AttachContact(ctx, AttachContactInput{ReservationID: res.ID, Email: "a@x.com"}); err != nil {
			t.Fatalf("attach failed: %v", err)
		}
		if _, err := svc.ConfirmPayment(ctx, res.ID); err != nil {
			t.Fatalf("first confirm failed: %v", err)
		}

		again, err := svc.ConfirmPayment(ctx, res.ID)
		if err != nil {
			t.Fatalf("expected idempotent confirm, got %v", err)
		}
		if again.Status != domain.ReservationPaid {
			t.Fatalf("expected status PAID, got %s", again.Status)
		}
	})

	t.Run("payment before contact is rejected", func(t *testing.T) {
		t.Parallel()
		svc, _, res := setup(t)

		_, err := svc.ConfirmPayment(context.Background(), res.ID)
		if !errors.Is(err, domain.ErrNoContactAttached) {
			t.Fatalf("expected ErrNoContactAttached, got %v", err)
		}
	})

	t.Run("unknown reservation", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := setup(t)

		_, err := svc.ConfirmPayment(context.Background(), "missing")
		if !errors.Is(err, domain.ErrReservationNotFound) {
			t.Fatalf("expected ErrReservationNotFound, got %v", err)
		}
	})
}

func TestReservationService_Cancel(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("releases seats and deletes the reservation", func(t *testing.T) {
		t.Parallel()
		repo := newFakeRepo("Expo", "A1", "A2")
		svc := NewReservationService(repo, clock.NewManual(start), nil)
		ctx := context.Background()

		res, err := svc.SelectSeats(ctx, SelectSeatsInput{EventID: "event-1", Seats: []string{"A1", "A2"}})
		if err != nil {
			t.Fatalf("claim failed: %v", err)
		}
		if err := svc.Cancel(ctx, res.ID); err != nil {
			t.Fatalf("cancel failed: %v", err)
		}
		if !repo.seatFree("A1") || !repo.seatFree("A2") {
			t.Fatalf("expected seats released")
		}

		// Released seats can be claimed again right away.
		if _, err := svc.SelectSeats(ctx, SelectSeatsInput{EventID: "event-1", Seats: []string{"A1", "A2"}}); err != nil {
			t.Fatalf("expected re-claim to succeed, got %v", err)
		}
	})

	t.Run("paid reservations cannot be canceled", func(t *testing.T) {
		t.Parallel()
		repo := newFakeRepo("Expo", "A1")
		svc := NewReservationService(repo, clock.NewManual(start), nil)
		ctx := context.Background()

		res, err := svc.SelectSeats(ctx, SelectSeatsInput{EventID: "event-1", Seats: []string{"A1"}})
		if err != nil {
			t.Fatalf("claim failed: %v", err)
		}
		if _, err := svc.AttachContact(ctx, AttachContactInput{ReservationID: res.ID, Email: "a@x.com"}); err != nil {
			t.Fatalf("attach failed: %v", err)
		}
		if _, err := svc.ConfirmPayment(ctx, res.ID); err != nil {
			t.Fatalf("confirm failed: %v", err)
		}

		if err := svc.Cancel(ctx, res.ID); !errors.Is(err, domain.ErrReservationPaid) {
			t.Fatalf("expected ErrReservationPaid, got %v", err)
		}
		if repo.seatFree("A1") {
			t.Fatalf("expected paid seat to stay claimed")
		}
	})
}

func TestReservationService_ReservationDetails(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := newFakeRepo("Expo", "B2", "A1")
	svc := NewReservationService(repo, clock.NewManual(start), nil)
	ctx := context.Background()

	res, err := svc.SelectSeats(ctx, SelectSeatsInput{EventID: "event-1", Seats: []string{"B2", "A1"}})
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	details, err := svc.ReservationDetails(ctx, res.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(details.Tickets) != 2 {
		t.Fatalf("expected 2 tickets, got %d", len(details.Tickets))
	}
	if details.Tickets[0].SeatIdentifier != "A1" || details.Tickets[1].SeatIdentifier != "B2" {
		t.Fatalf("expected seat order A1, B2, got %+v", details.Tickets)
	}
	want := decimal.NewFromInt(100)
	if !details.TotalPrice.Equal(want) {
		t.Fatalf("expected total %s, got %s", want, details.TotalPrice)
	}
}

// fakeReservationRepo is an in-memory ReservationRepository. WithTx
// snapshots state and restores it when fn fails, mirroring a rollback.
type fakeReservationRepo struct {
	events       map[string]domain.Event
	tickets      []*fakeTicket
	reservations map[string]domain.Reservation
	clients      map[string]domain.Client
}

type fakeTicket struct {
	eventID string
	seat    string
	tier    string
	price   decimal.Decimal
	resID   *string
}

// newFakeRepo seeds one event ("event-1") with the given seats in a
// single 50.00 tier.
func newFakeRepo(eventName string, seats ...string) *fakeReservationRepo {
	repo := &fakeReservationRepo{
		events: map[string]domain.Event{
			"event-1": {ID: "event-1", Name: eventName, StartsAt: time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)},
		},
		reservations: make(map[string]domain.Reservation),
		clients:      make(map[string]domain.Client),
	}
	for _, seat := range seats {
		repo.tickets = append(repo.tickets, &fakeTicket{
			eventID: "event-1",
			seat:    seat,
			tier:    "Standard",
			price:   decimal.NewFromInt(50),
		})
	}
	return repo
}

func (f *fakeReservationRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tickets := make([]*fakeTicket, len(f.tickets))
	for i, t := range f.tickets {
		cp := *t
		tickets[i] = &cp
	}
	reservations := make(map[string]domain.Reservation, len(f.reservations))
	for k, v := range f.reservations {
		reservations[k] = v
	}
	clients := make(map[string]domain.Client, len(f.clients))
	for k, v := range f.clients {
		clients[k] = v
	}

	if err := fn(ctx); err != nil {
		f.tickets = tickets
		f.reservations = reservations
		f.clients = clients
		return err
	}
	return nil
}

func (f *fakeReservationRepo) GetEvent(_ context.Context, eventID string) (domain.Event, error) {
	e, ok := f.events[eventID]
	if !ok {
		return domain.Event{}, domain.ErrEventNotFound
	}
	return e, nil
}

func (f *fakeReservationRepo) GetReservation(_ context.Context, id string) (domain.Reservation, error) {
	r, ok := f.reservations[id]
	if !ok {
		return domain.Reservation{}, domain.ErrReservationNotFound
	}
	return r, nil
}

func (f *fakeReservationRepo) GetReservationForUpdate(ctx context.Context, id string) (domain.Reservation, error) {
	return f.GetReservation(ctx, id)
}

func (f *fakeReservationRepo) CreateReservation(_ context.Context, res domain.Reservation) error {
	f.reservations[res.ID] = res
	return nil
}

func (f *fakeReservationRepo) CountEventSeats(_ context.Context, eventID string, seats []string) (int, error) {
	count := 0
	for _, t := range f.tickets {
		if t.eventID == eventID && contains(seats, t.seat) {
			count++
		}
	}
	return count, nil
}

func (f *fakeReservationRepo) TakenSeats(_ context.Context, eventID string, seats []string) ([]string, error) {
	var taken []string
	for _, t := range f.tickets {
		if t.eventID == eventID && t.resID != nil && contains(seats, t.seat) {
			taken = append(taken, t.seat)
		}
	}
	sort.Strings(taken)
	return taken, nil
}

func (f *fakeReservationRepo) ClaimSeats(_ context.Context, reservationID, eventID string, seats []string) (int64, error) {
	var claimed int64
	for _, t := range f.tickets {
		if t.eventID == eventID && t.resID == nil && contains(seats, t.seat) {
			id := reservationID
			t.resID = &id
			claimed++
		}
	}
	return claimed, nil
}

func (f *fakeReservationRepo) SetClientAndStatus(_ context.Context, reservationID, clientID string, status domain.ReservationStatus) error {
	r, ok := f.reservations[reservationID]
	if !ok {
		return domain.ErrReservationNotFound
	}
	r.ClientID = &clientID
	r.Status = status
	f.reservations[reservationID] = r
	return nil
}

func (f *fakeReservationRepo) UpdateStatus(_ context.Context, reservationID string, status domain.ReservationStatus) error {
	r, ok := f.reservations[reservationID]
	if !ok {
		return domain.ErrReservationNotFound
	}
	r.Status = status
	f.reservations[reservationID] = r
	return nil
}

func (f *fakeReservationRepo) ReleaseAndDelete(_ context.Context, reservationID string) error {
	if _, ok := f.reservations[reservationID]; !ok {
		return domain.ErrReservationNotFound
	}
	f.release(reservationID)
	delete(f.reservations, reservationID)
	return nil
}

func (f *fakeReservationRepo) DeleteExpired(_ context.Context, cutoff time.Time) (int64, error) {
	var removed int64
	for id, r := range f.reservations {
		if r.Status == domain.ReservationPaid {
			continue
		}
		if r.BookedTime.After(cutoff) {
			continue
		}
		f.release(id)
		delete(f.reservations, id)
		removed++
	}
	return removed, nil
}

func (f *fakeReservationRepo) ReservationTickets(_ context.Context, reservationID string) ([]domain.ReservationTicket, error) {
	var out []domain.ReservationTicket
	for _, t := range f.tickets {
		if t.resID != nil && *t.resID == reservationID {
			out = append(out, domain.ReservationTicket{
				SeatIdentifier: t.seat,
				TierName:       t.tier,
				Price:          t.price,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SeatIdentifier < out[j].SeatIdentifier })
	return out, nil
}

func (f *fakeReservationRepo) UpsertClient(_ context.Context, c domain.Client) (domain.Client, error) {
	if existing, ok := f.clients[c.Email]; ok {
		existing.FirstName = c.FirstName
		existing.LastName = c.LastName
		f.clients[c.Email] = existing
		return existing, nil
	}
	f.clients[c.Email] = c
	return c, nil
}

func (f *fakeReservationRepo) release(reservationID string) {
	for _, t := range f.tickets {
		if t.resID != nil && *t.resID == reservationID {
			t.resID = nil
		}
	}
}

func (f *fakeReservationRepo) seatFree(seat string) bool {
	for _, t := range f.tickets {
		if t.seat == seat {
			return t.resID == nil
		}
	}
	return false
}

func (f *fakeReservationRepo) seatsHeldBy(reservationID string) []string {
	var seats []string
	for _, t := range f.tickets {
		if t.resID != nil && *t.resID == reservationID {
			seats = append(seats, t.seat)
		}
	}
	sort.Strings(seats)
	return seats
}

func (f *fakeReservationRepo) reservationCount() int {
	return len(f.reservations)
}

func (f *fakeReservationRepo) clientCount() int {
	return len(f.clients)
}

func (f *fakeReservationRepo) clientByEmail(email string) domain.Client {
	return f.clients[email]
}

// racingPaymentRepo marks the reservation PAID as the next transaction
// opens, mimicking a payment that commits between the caller's
// unlocked read and the purge transaction.
type racingPaymentRepo struct {
	*fakeReservationRepo
	armed bool
}

func (r *racingPaymentRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if r.armed {
		r.armed = false
		for id, res := range r.reservations {
			res.Status = domain.ReservationPaid
			r.reservations[id] = res
		}
	}
	return r.fakeReservationRepo.WithTx(ctx, fn)
}

var errStorageDown = errors.New("storage down")

// lostRaceRepo loses every claim and then fails the taken-seat
// re-check, standing in for a storage fault mid-transaction.
type lostRaceRepo struct {
	*fakeReservationRepo
	takenCalls int
}

func (r *lostRaceRepo) ClaimSeats(context.Context, string, string, []string) (int64, error) {
	return 0, nil
}

func (r *lostRaceRepo) TakenSeats(ctx context.Context, eventID string, seats []string) ([]string, error) {
	r.takenCalls++
	if r.takenCalls > 1 {
		return nil, errStorageDown
	}
	return r.fakeReservationRepo.TakenSeats(ctx, eventID, seats)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
