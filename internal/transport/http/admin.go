package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ITopGun/TicketSelling-Platform/internal/app"
	"github.com/ITopGun/TicketSelling-Platform/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// InventoryService is the service surface for the admin inventory
// endpoints.
type InventoryService interface {
	CreateEvent(ctx context.Context, in app.CreateEventInput) (domain.Event, error)
	ListEvents(ctx context.Context) ([]domain.Event, error)
	CreateTier(ctx context.Context, in app.CreateTierInput) (domain.TicketTier, error)
	CreateTickets(ctx context.Context, in app.CreateTicketsInput) ([]domain.Ticket, error)
}

type AdminHandler struct {
	svc InventoryService
}

func NewAdminHandler(svc InventoryService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

type createEventRequest struct {
	Name        string `json:"name"`
	StartsAt    string `json:"starts_at"`
	Description string `json:"description"`
}

type eventResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	StartsAt    string `json:"starts_at"`
	Description string `json:"description"`
}

func toEventResponse(e domain.Event) eventResponse {
	return eventResponse{
		ID:          e.ID,
		Name:        e.Name,
		StartsAt:    e.StartsAt.Format(time.RFC3339),
		Description: e.Description,
	}
}

// CreateEvent handles POST /events.
func (h *AdminHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	var startsAt *time.Time
	if req.StartsAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.StartsAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidStartsAt, "invalid starts_at format")
			return
		}
		startsAt = &parsed
	}

	event, err := h.svc.CreateEvent(r.Context(), app.CreateEventInput{
		Name:        req.Name,
		StartsAt:    startsAt,
		Description: req.Description,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(toEventResponse(event))
}

// ListEvents handles GET /events.
func (h *AdminHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.ListEvents(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := make([]eventResponse, 0, len(events))
	for _, e := range events {
		resp = append(resp, toEventResponse(e))
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

type createTierRequest struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

type tierResponse struct {
	ID      string `json:"id"`
	EventID string `json:"event_id"`
	Name    string `json:"name"`
	Price   string `json:"price"`
}

// CreateTier handles POST /events/{eventID}/tiers.
func (h *AdminHandler) CreateTier(w http.ResponseWriter, r *http.Request) {
	var req createTierRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidPrice, "invalid price")
		return
	}

	tier, err := h.svc.CreateTier(r.Context(), app.CreateTierInput{
		EventID: chi.URLParam(r, "eventID"),
		Name:    req.Name,
		Price:   price,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(tierResponse{
		ID:      tier.ID,
		EventID: tier.EventID,
		Name:    tier.Name,
		Price:   tier.Price.StringFixed(2),
	})
}

type createTicketsRequest struct {
	TierID string   `json:"tier_id"`
	Seats  []string `json:"seats"`
}

type createTicketsResponse struct {
	Created int `json:"created"`
}

// CreateTickets handles POST /events/{eventID}/tickets.
func (h *AdminHandler) CreateTickets(w http.ResponseWriter, r *http.Request) {
	var req createTicketsRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	tickets, err := h.svc.CreateTickets(r.Context(), app.CreateTicketsInput{
		EventID:         chi.URLParam(r, "eventID"),
		TierID:          req.TierID,
		SeatIdentifiers: req.Seats,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(createTicketsResponse{Created: len(tickets)})
}
