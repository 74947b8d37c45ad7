package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ITopGun/TicketSelling-Platform/internal/app"
	"github.com/ITopGun/TicketSelling-Platform/internal/domain"
	"github.com/go-chi/chi/v5"
)

// ClientLookup is the service surface for reservation/client lookups.
type ClientLookup interface {
	FindReservationOrClient(ctx context.Context, reservationID, email string) (app.LookupTarget, error)
	ListClientReservations(ctx context.Context, clientID string) ([]domain.ClientReservation, error)
}

type ClientHandler struct {
	svc ClientLookup
}

func NewClientHandler(svc ClientLookup) *ClientHandler {
	return &ClientHandler{svc: svc}
}

type lookupRequest struct {
	ReservationID string `json:"reservation_id"`
	Email         string `json:"email"`
}

type lookupResponse struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

// Lookup handles POST /reservations/lookup: the "find my reservation"
// form. Resolves to a redirect target by reservation id or by email.
func (h *ClientHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	var req lookupRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	target, err := h.svc.FindReservationOrClient(r.Context(), req.ReservationID, req.Email)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(lookupResponse{
		Kind: string(target.Kind),
		ID:   target.ID,
	})
}

type clientReservationResponse struct {
	ReservationID string `json:"reservation_id"`
	Status        string `json:"status"`
	EventID       string `json:"event_id"`
	EventName     string `json:"event_name"`
	EventStartsAt string `json:"event_starts_at"`
	Active        bool   `json:"active"`
}

// Reservations handles GET /clients/{clientID}/reservations.
func (h *ClientHandler) Reservations(w http.ResponseWriter, r *http.Request) {
	history, err := h.svc.ListClientReservations(r.Context(), chi.URLParam(r, "clientID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := make([]clientReservationResponse, 0, len(history))
	for _, cr := range history {
		resp = append(resp, clientReservationResponse{
			ReservationID: cr.ReservationID,
			Status:        string(cr.Status),
			EventID:       cr.EventID,
			EventName:     cr.EventName,
			EventStartsAt: cr.EventStartsAt.Format(time.RFC3339),
			Active:        cr.Active,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
