/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. RequestID:     Unique ID per request for tracing
  2. CleanPath:     Normalize request paths
  3. RequestLogger: Structured request logs (httplog over slog, JSON)
  4. Recoverer:     Panic recovery (500 instead of crash)
  5. Heartbeat:     /health liveness probe
  6. CORS:          Cross-origin requests for the frontend

ROUTE GROUPS:
  /api/users/*          Users, month views, time logs, absences, bank
  /api/logs/*           Time log updates by entry id
  /api/absences/*       Absence approval lifecycle
  /api/reports/*        Org-wide monthly report
  /api/calendar/*       Holiday calendar

SECURITY NOTE:
  No authentication middleware; the deployment gateway owns auth and this
  service trusts the user id in the path.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, logger *slog.Logger, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.CleanPath)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/health"))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// User routes
		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.ListUsers)
			r.Get("/{id}/months/{month}", h.GetMonth)

			r.Route("/{id}/logs", func(r chi.Router) {
				r.Get("/", h.ListTimeLogs)
				r.Post("/", h.CreateTimeLog)
			})

			r.Route("/{id}/absences", func(r chi.Router) {
				r.Get("/", h.ListAbsences)
				r.Post("/", h.CreateAbsence)
			})

			r.Route("/{id}/bank", func(r chi.Router) {
				r.Get("/", h.GetBank)
				r.Post("/transfers", h.TransferToBank)
			})
		})

		// Time log routes (by entry id)
		r.Route("/logs", func(r chi.Router) {
			r.Put("/{id}", h.UpdateTimeLog)
			r.Delete("/{id}", h.DeleteTimeLog)
		})

		// Absence approval routes
		r.Route("/absences", func(r chi.Router) {
			r.Post("/{id}/approve", h.ApproveAbsence)
			r.Post("/{id}/reject", h.RejectAbsence)
		})

		// Report routes
		r.Get("/reports/{month}", h.GetReport)

		// Calendar routes
		r.Get("/calendar/{year}", h.GetCalendar)
	})

	return r
}
