package leaderboardrouter

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	leaderboardhandlers "github.com/satrf/scorekeeper/app/modules/leaderboard/infrastructure/handlers"
)

// PublicPath is where the public leaderboard routes are mounted.
const PublicPath = "/api/leaderboard"

// Mount registers the public leaderboard routes on r.
func Mount(r chi.Router, h leaderboardhandlers.Handlers, middlewares ...func(http.Handler) http.Handler) {
	r.Route(PublicPath, func(r chi.Router) {
		r.Use(middlewares...)

		r.Get("/overall", h.HandleOverall)
		r.Get("/club", h.HandleClubs)
		r.Get("/event", h.HandleMatch)
		r.Get("/shooters/{"+leaderboardhandlers.ShooterParam+"}/statistics", h.HandleShooterStatistics)
		r.Get("/shooters/{"+leaderboardhandlers.ShooterParam+"}/chart.png", h.HandleShooterChart)
	})
}
