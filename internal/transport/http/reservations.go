package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ITopGun/TicketSelling-Platform/internal/app"
	"github.com/ITopGun/TicketSelling-Platform/internal/domain"
	"github.com/go-chi/chi/v5"
)

// ReservationLifecycle is the service surface the reservation
// endpoints need.
type ReservationLifecycle interface {
	SelectSeats(ctx context.Context, in app.SelectSeatsInput) (domain.Reservation, error)
	RemainingHoldTime(ctx context.Context, reservationID string) (time.Duration, error)
	AttachContact(ctx context.Context, in app.AttachContactInput) (domain.Reservation, error)
	ConfirmPayment(ctx context.Context, reservationID string) (domain.Reservation, error)
	Cancel(ctx context.Context, reservationID string) error
	ReservationDetails(ctx context.Context, reservationID string) (app.ReservationDetails, error)
}

type ReservationHandler struct {
	svc ReservationLifecycle
}

func NewReservationHandler(svc ReservationLifecycle) *ReservationHandler {
	return &ReservationHandler{svc: svc}
}

type selectSeatsRequest struct {
	Seats []string `json:"seats"`
}

type reservationResponse struct {
	ID         string  `json:"id"`
	EventID    string  `json:"event_id"`
	Status     string  `json:"status"`
	BookedTime string  `json:"booked_time"`
	ClientID   *string `json:"client_id,omitempty"`
}

func toReservationResponse(res domain.Reservation) reservationResponse {
	return reservationResponse{
		ID:         res.ID,
		EventID:    res.EventID,
		Status:     string(res.Status),
		BookedTime: res.BookedTime.Format(time.RFC3339),
		ClientID:   res.ClientID,
	}
}

// SelectSeats handles POST /events/{eventID}/reservations.
func (h *ReservationHandler) SelectSeats(w http.ResponseWriter, r *http.Request) {
	var req selectSeatsRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	res, err := h.svc.SelectSeats(r.Context(), app.SelectSeatsInput{
		EventID: chi.URLParam(r, "eventID"),
		Seats:   req.Seats,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(toReservationResponse(res))
}

type holdTimeResponse struct {
	Remaining string `json:"remaining"`
	Seconds   int    `json:"seconds"`
}

// RemainingHoldTime handles GET /reservations/{reservationID}/time-left.
// The remaining window is rendered as minutes:seconds; a lapsed hold
// answers 410 and the reservation is gone afterwards.
func (h *ReservationHandler) RemainingHoldTime(w http.ResponseWriter, r *http.Request) {
	left, err := h.svc.RemainingHoldTime(r.Context(), chi.URLParam(r, "reservationID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	seconds := int(left.Seconds())
	resp := holdTimeResponse{
		Remaining: fmt.Sprintf("%d:%02d", seconds/60, seconds%60),
		Seconds:   seconds,
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

type attachContactRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// AttachContact handles POST /reservations/{reservationID}/contact.
func (h *ReservationHandler) AttachContact(w http.ResponseWriter, r *http.Request) {
	var req attachContactRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	res, err := h.svc.AttachContact(r.Context(), app.AttachContactInput{
		ReservationID: chi.URLParam(r, "reservationID"),
		Email:         req.Email,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toReservationResponse(res))
}

// ConfirmPayment handles POST /reservations/{reservationID}/payment.
// Invoked by the payment gateway adapter on a success signal.
func (h *ReservationHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ConfirmPayment(r.Context(), chi.URLParam(r, "reservationID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toReservationResponse(res))
}

// Cancel handles DELETE /reservations/{reservationID}.
func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Cancel(r.Context(), chi.URLParam(r, "reservationID")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type reservationTicketResponse struct {
	SeatIdentifier string `json:"seat_identifier"`
	TierName       string `json:"tier_name"`
	Price          string `json:"price"`
}

type reservationDetailsResponse struct {
	Reservation reservationResponse         `json:"reservation"`
	Tickets     []reservationTicketResponse `json:"tickets"`
	TotalPrice  string                      `json:"total_price"`
}

// Details handles GET /reservations/{reservationID}.
func (h *ReservationHandler) Details(w http.ResponseWriter, r *http.Request) {
	details, err := h.svc.ReservationDetails(r.Context(), chi.URLParam(r, "reservationID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	tickets := make([]reservationTicketResponse, 0, len(details.Tickets))
	for _, t := range details.Tickets {
		tickets = append(tickets, reservationTicketResponse{
			SeatIdentifier: t.SeatIdentifier,
			TierName:       t.TierName,
			Price:          t.Price.StringFixed(2),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(reservationDetailsResponse{
		Reservation: toReservationResponse(details.Reservation),
		Tickets:     tickets,
		TotalPrice:  details.TotalPrice.StringFixed(2),
	})
}
