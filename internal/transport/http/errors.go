package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ITopGun/TicketSelling-Platform/internal/domain"
)

const (
	codeNotFound           = "not_found"
	codeInvalidRequestBody = "invalid_request_body"
	codeInvalidID          = "invalid_id"

	codeSeatsTaken          = "seats_taken"
	codeNoSeatsSelected     = "no_seats_selected"
	codeUnknownSeats        = "unknown_seats"
	codeReservationExpired  = "reservation_expired"
	codeReservationNotFound = "reservation_not_found"
	codeReservationPaid     = "reservation_paid"
	codeNoContactAttached   = "no_contact_attached"
	codeEmailRequired       = "email_required"
	codeLookupRequired      = "lookup_required"
	codeClientNotFound      = "client_not_found"
	codeEventNotFound       = "event_not_found"
	codeTierNotFound        = "tier_not_found"

	codeEventNameRequired = "event_name_required"
	codeTierNameRequired  = "tier_name_required"
	codeInvalidPrice      = "invalid_price"
	codeInvalidStartsAt   = "invalid_starts_at"
	codeDuplicateSeat     = "duplicate_seat"
	codeTierExists        = "tier_already_exists"

	codeForbidden     = "forbidden"
	codeInternalError = "internal_error"
)

type errorResponse struct {
	Error string   `json:"error"`
	Code  string   `json:"code"`
	Seats []string `json:"seats,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeErrorSeats(w, status, code, msg, nil)
}

func writeErrorSeats(w http.ResponseWriter, status int, code, msg string, seats []string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
		Seats: seats,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeDomainError maps the error taxonomy onto HTTP outcomes. The
// four expected user-facing errors get precise statuses; anything else
// is an unexpected storage fault and surfaces as a 500.
func writeDomainError(w http.ResponseWriter, err error) {
	var taken *domain.SeatsTakenError
	if errors.As(err, &taken) {
		writeErrorSeats(w, http.StatusConflict, codeSeatsTaken, taken.Error(), taken.Seats)
		return
	}

	switch {
	case errors.Is(err, domain.ErrSeatsUnavailable):
		writeError(w, http.StatusConflict, codeSeatsTaken, err.Error())
	case errors.Is(err, domain.ErrReservationExpired):
		writeError(w, http.StatusGone, codeReservationExpired, err.Error())
	case errors.Is(err, domain.ErrReservationNotFound):
		writeError(w, http.StatusNotFound, codeReservationNotFound, err.Error())
	case errors.Is(err, domain.ErrClientNotFound):
		writeError(w, http.StatusNotFound, codeClientNotFound, err.Error())
	case errors.Is(err, domain.ErrEventNotFound):
		writeError(w, http.StatusNotFound, codeEventNotFound, err.Error())
	case errors.Is(err, domain.ErrTierNotFound):
		writeError(w, http.StatusNotFound, codeTierNotFound, err.Error())
	case errors.Is(err, domain.ErrReservationPaid):
		writeError(w, http.StatusConflict, codeReservationPaid, err.Error())
	case errors.Is(err, domain.ErrNoContactAttached):
		writeError(w, http.StatusConflict, codeNoContactAttached, err.Error())
	case errors.Is(err, domain.ErrTierAlreadyExists):
		writeError(w, http.StatusConflict, codeTierExists, err.Error())
	case errors.Is(err, domain.ErrDuplicateSeat):
		writeError(w, http.StatusConflict, codeDuplicateSeat, err.Error())
	case errors.Is(err, domain.ErrNoSeatsSelected):
		writeError(w, http.StatusBadRequest, codeNoSeatsSelected, err.Error())
	case errors.Is(err, domain.ErrUnknownSeats):
		writeError(w, http.StatusBadRequest, codeUnknownSeats, err.Error())
	case errors.Is(err, domain.ErrEmailRequired):
		writeError(w, http.StatusBadRequest, codeEmailRequired, err.Error())
	case errors.Is(err, domain.ErrLookupRequired):
		writeError(w, http.StatusBadRequest, codeLookupRequired, err.Error())
	case errors.Is(err, domain.ErrEventNameRequired):
		writeError(w, http.StatusBadRequest, codeEventNameRequired, err.Error())
	case errors.Is(err, domain.ErrTierNameRequired):
		writeError(w, http.StatusBadRequest, codeTierNameRequired, err.Error())
	case errors.Is(err, domain.ErrInvalidPrice):
		writeError(w, http.StatusBadRequest, codeInvalidPrice, err.Error())
	case errors.Is(err, domain.ErrInvalidID):
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
