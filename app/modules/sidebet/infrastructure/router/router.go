// Package sidebetrouter mounts the side-bet module's HTTP routes.
package sidebetrouter

import (
	"github.com/go-chi/chi/v5"

	sidebethandlers "github.com/discbaboons/rounds-service/app/modules/sidebet/infrastructure/handlers"
)

// Mount attaches the side-bet routes under /rounds/{roundId}/side-bets.
func Mount(r chi.Router, h *sidebethandlers.Handlers) {
	r.Route("/rounds/{roundId}/side-bets", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{betId}", h.Get)
		r.Put("/{betId}", h.Update)
		r.Delete("/{betId}", h.Cancel)
	})
}
