package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ITopGun/TicketSelling-Platform/internal/app"
	"github.com/go-chi/chi/v5"
)

// SeatMapProvider is the service surface for the seat-layout endpoint.
type SeatMapProvider interface {
	SeatMap(ctx context.Context, eventID string) (app.SeatMap, error)
}

type CatalogHandler struct {
	svc SeatMapProvider
}

func NewCatalogHandler(svc SeatMapProvider) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

type seatResponse struct {
	SeatIdentifier string `json:"seat_identifier"`
	Free           bool   `json:"free"`
}

type tierSeatMapResponse struct {
	Name      string           `json:"name"`
	Price     string           `json:"price"`
	FreeSeats int              `json:"free_seats"`
	Rows      [][]seatResponse `json:"rows"`
}

type seatMapResponse struct {
	EventID   string                `json:"event_id"`
	EventName string                `json:"event_name"`
	StartsAt  string                `json:"starts_at"`
	Tiers     []tierSeatMapResponse `json:"tiers"`
}

// SeatMap handles GET /events/{eventID}/seats.
func (h *CatalogHandler) SeatMap(w http.ResponseWriter, r *http.Request) {
	seatMap, err := h.svc.SeatMap(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	tiers := make([]tierSeatMapResponse, 0, len(seatMap.Tiers))
	for _, tier := range seatMap.Tiers {
		rows := make([][]seatResponse, 0, len(tier.Rows))
		for _, row := range tier.Rows {
			seats := make([]seatResponse, 0, len(row))
			for _, seat := range row {
				seats = append(seats, seatResponse{
					SeatIdentifier: seat.SeatIdentifier,
					Free:           seat.Free,
				})
			}
			rows = append(rows, seats)
		}
		tiers = append(tiers, tierSeatMapResponse{
			Name:      tier.Name,
			Price:     tier.Price.StringFixed(2),
			FreeSeats: tier.FreeSeats,
			Rows:      rows,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(seatMapResponse{
		EventID:   seatMap.Event.ID,
		EventName: seatMap.Event.Name,
		StartsAt:  seatMap.Event.StartsAt.Format(time.RFC3339),
		Tiers:     tiers,
	})
}
