// Package api serves the daemon's control API on its Unix socket.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter assembles the daemon's HTTP routes.
func NewRouter(statusH *StatusHandler, items *ItemHandler, participants *ParticipantHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", statusH.Health)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/status", statusH.Status)
		r.Post("/sync", items.Sync)

		r.Route("/items", func(r chi.Router) {
			r.Get("/", items.List)
			r.Post("/", items.Create)
			r.Put("/{id}", items.Update)
			r.Delete("/{id}", items.Delete)
		})

		r.Get("/participants", participants.Search)
		r.Post("/conversations", participants.CreateConversation)
	})

	return r
}
