package server

import (
	"net/http"

	"github.com/moonhowl/werewolves/internal/game"
)

// StatusResponse is the unauthenticated server status report.
type StatusResponse struct {
	PlayersCount int `json:"playersCount"`
	GamesCount   int `json:"gamesCount"`
}

// HealthResponse is the liveness probe body.
type HealthResponse struct {
	Status string `json:"status"`
}

func handleStatus(store *game.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, games := store.Counts()
		writeJSON(w, http.StatusOK, StatusResponse{
			PlayersCount: players,
			GamesCount:   games,
		})
	}
}

// handleHealth reports liveness. There are no backing services to check:
// state is memory-resident, so a responding process is a healthy one.
func handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}
