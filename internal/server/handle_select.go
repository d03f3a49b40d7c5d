package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/moonhowl/werewolves/internal/game"
)

// SelectRequest carries the caller's vote for the current phase: day-vote
// targets, werewolf prey, the stealer's mark or cupid's two lovers.
type SelectRequest struct {
	Targets []string `json:"targets"`
}

// SorceressRequest spends a potion. Save is true to resurrect this night's
// victim, false to kill a living player.
type SorceressRequest struct {
	Target string `json:"target"`
	Save   bool   `json:"save"`
}

func handleSelectPlayers(store *game.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, ok := store.FindGame(chi.URLParam(r, "gameID"))
		if !ok {
			writeGameError(w, game.ErrGameNotFound)
			return
		}

		var req SelectRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if len(req.Targets) == 0 {
			writeError(w, http.StatusBadRequest, "targets are required")
			return
		}

		if err := g.Vote(playerFrom(r).ID, req.Targets); err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct{}{})
	}
}

func handleSorceressSelect(store *game.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, ok := store.FindGame(chi.URLParam(r, "gameID"))
		if !ok {
			writeGameError(w, game.ErrGameNotFound)
			return
		}

		var req SorceressRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Target == "" {
			writeError(w, http.StatusBadRequest, "target is required")
			return
		}

		if err := g.SorceressSelect(playerFrom(r).ID, req.Target, req.Save); err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct{}{})
	}
}
