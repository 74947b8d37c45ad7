package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig collects the handlers and middleware inputs the router
// wires together.
type RouterConfig struct {
	Reservations *ReservationHandler
	Catalog      *CatalogHandler
	Clients      *ClientHandler
	Admin        *AdminHandler
	Logger       *slog.Logger
	CORSOrigins  []string
}

// NewRouter assembles the full route table.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", HealthHandler)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/events", func(r chi.Router) {
		r.Get("/", cfg.Admin.ListEvents)
		r.Post("/", cfg.Admin.CreateEvent)
		r.Route("/{eventID}", func(r chi.Router) {
			r.Get("/seats", cfg.Catalog.SeatMap)
			r.Post("/reservations", cfg.Reservations.SelectSeats)
			r.Post("/tiers", cfg.Admin.CreateTier)
			r.Post("/tickets", cfg.Admin.CreateTickets)
		})
	})

	r.Route("/reservations", func(r chi.Router) {
		r.Post("/lookup", cfg.Clients.Lookup)
		r.Route("/{reservationID}", func(r chi.Router) {
			r.Get("/", cfg.Reservations.Details)
			r.Get("/time-left", cfg.Reservations.RemainingHoldTime)
			r.Post("/contact", cfg.Reservations.AttachContact)
			r.Post("/payment", cfg.Reservations.ConfirmPayment)
			r.Delete("/", cfg.Reservations.Cancel)
		})
	})

	r.Get("/clients/{clientID}/reservations", cfg.Clients.Reservations)

	r.NotFound(NotFoundHandler().ServeHTTP)

	return RequestLogger(CORS(cfg.CORSOrigins, r), cfg.Logger)
}
