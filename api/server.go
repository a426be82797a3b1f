/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the HR frontend
  5. Identity:   Acting-user extraction from the bearer token

ROUTE GROUPS:
  /api/leave-types/*    Leave type administration
  /api/employees/*      Employee records, balances, request history
  /api/requests/*       Lifecycle commands (submit/approve/reject/cancel)
  /api/admin/*          Rollover

SEE ALSO:
  - handlers.go: handler implementations
  - identity.go: bearer-token middleware
  - cmd/server/main.go: server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured. The JWT secret
// guards every /api route.
func NewRouter(h *Handler, jwtSecret []byte) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Use(Identity(jwtSecret))

		// Leave type administration
		r.Route("/leave-types", func(r chi.Router) {
			r.Get("/", h.ListLeaveTypes)
			r.Post("/", h.SaveLeaveType)
			r.Get("/{id}", h.GetLeaveType)
			r.Delete("/{id}", h.DeleteLeaveType)
			r.Post("/{id}/deactivate", h.DeactivateLeaveType)
		})

		// Employee records and balances
		r.Route("/employees", func(r chi.Router) {
			r.Post("/", h.SaveEmployee)
			r.Get("/{id}", h.GetEmployee)
			r.Get("/{id}/balance", h.GetBalance)
			r.Get("/{id}/requests", h.ListEmployeeRequests)
		})

		// Request lifecycle
		r.Route("/requests", func(r chi.Router) {
			r.Post("/", h.SubmitRequest)
			r.Get("/pending", h.ListPendingApprovals)
			r.Get("/{id}", h.GetRequest)
			r.Post("/{id}/approve", h.ApproveRequest)
			r.Post("/{id}/reject", h.RejectRequest)
			r.Post("/{id}/cancel", h.CancelRequest)
			r.Post("/{id}/taken", h.MarkRequestTaken)
		})

		// Admin operations
		r.Route("/admin", func(r chi.Router) {
			r.Post("/rollover", h.TriggerRollover)
		})
	})

	return r
}
