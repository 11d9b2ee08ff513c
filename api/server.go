/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:     Unique ID per request for tracing
  2. RequestLogger: One zap line per request, tagged with the request ID
  3. Recoverer:     Panic recovery (500 instead of crash)
  4. CORS:          Cross-origin requests for the frontend

ROUTE GROUPS:
  /api/staff/*       Roster, snapshot, periods, and per-staff ledgers
  /api/vacations/*   Vacation update/delete by record id
  /api/absences/*    Absence update/delete by record id
  /api/swaps/*       Swap update/delete by record id
  /api/alerts        Organization-wide alerts
  /health            Liveness

SEE ALSO:
  - handlers.go: Handler implementations
  - middleware.go: Request logging
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// RouterOptions tunes the middleware stack.
type RouterOptions struct {
	// CORSOrigins defaults to the local dev frontends when empty.
	CORSOrigins []string
	Logger      *zap.Logger
}

var defaultOrigins = []string{"http://localhost:5173", "http://localhost:8080"}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = defaultOrigins
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(opts.Logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/staff", func(r chi.Router) {
			r.Get("/", h.ListStaff)
			r.Post("/", h.CreateStaff)
			r.Get("/{id}", h.GetStaff)
			r.Put("/{id}", h.UpdateStaff)
			r.Delete("/{id}", h.DeleteStaff)
			r.Get("/{id}/periods", h.GetPeriods)
			r.Get("/{id}/alerts", h.GetStaffAlerts)

			r.Get("/{id}/vacations", h.ListVacations)
			r.Post("/{id}/vacations", h.CreateVacation)
			r.Post("/{id}/vacations/draft", h.DraftVacation)

			r.Get("/{id}/absences", h.ListAbsences)
			r.Post("/{id}/absences", h.CreateAbsence)

			r.Get("/{id}/swaps", h.ListSwaps)
			r.Post("/{id}/swaps", h.CreateSwap)
		})

		r.Route("/vacations", func(r chi.Router) {
			r.Put("/{id}", h.UpdateVacation)
			r.Delete("/{id}", h.DeleteVacation)
		})

		r.Route("/absences", func(r chi.Router) {
			r.Put("/{id}", h.UpdateAbsence)
			r.Delete("/{id}", h.DeleteAbsence)
		})

		r.Route("/swaps", func(r chi.Router) {
			r.Put("/{id}", h.UpdateSwap)
			r.Delete("/{id}", h.DeleteSwap)
		})

		r.Get("/alerts", h.ListAlerts)
	})

	return r
}
