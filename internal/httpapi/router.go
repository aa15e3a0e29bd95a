// Package httpapi serves the reminder store and the parse pipeline over a
// small JSON API.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter mounts the health check, /metrics and the /api routes.
func NewRouter(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.logger))
	r.Use(middleware.Recoverer)

	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		h.writeJSON(w, http.StatusOK, map[string]any{
			"status":  "ok",
			"parsing": h.parser != nil,
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/reminders", h.ListReminders)
		r.Post("/reminders", h.CreateReminder)
		r.Post("/reminders/parse", h.ParseReminder)
		r.Patch("/reminders/{id}/status", h.UpdateStatus)
		r.Get("/summary", h.Summary)
	})

	return r
}
