package leaderboardhandlers

import "net/http"

// Handlers serves the public leaderboard endpoints.
type Handlers interface {
	HandleOverall(w http.ResponseWriter, r *http.Request)
	HandleClubs(w http.ResponseWriter, r *http.Request)
	HandleMatch(w http.ResponseWriter, r *http.Request)
	HandleShooterStatistics(w http.ResponseWriter, r *http.Request)
	HandleShooterChart(w http.ResponseWriter, r *http.Request)
}
