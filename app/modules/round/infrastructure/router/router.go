// Package roundrouter mounts the round module's HTTP routes.
package roundrouter

import (
	"github.com/go-chi/chi/v5"

	roundhandlers "github.com/discbaboons/rounds-service/app/modules/round/infrastructure/handlers"
)

// Mount attaches the round routes under /rounds/{roundId}.
func Mount(r chi.Router, h *roundhandlers.Handlers) {
	r.Route("/rounds/{roundId}", func(r chi.Router) {
		r.Get("/leaderboard", h.GetLeaderboard)
		r.Get("/skins", h.GetSkins)
		r.Get("/scores", h.GetScorecard)
		r.Post("/scores", h.SubmitScores)
		r.Put("/pars/{holeNumber}", h.SetPar)
	})
}
