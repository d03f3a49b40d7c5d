package server

import (
	"net/http"
	"strings"

	"github.com/moonhowl/werewolves/internal/game"
)

// LoginRequest is the request body for POST /api/login.
type LoginRequest struct {
	Name string `json:"name"`
}

// LoginResponse is the public profile plus the auth secret, which is sent
// exactly once and never again.
type LoginResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Token        string   `json:"token"`
	Games        []string `json:"games"`
	GamesCreated []string `json:"gamesCreated"`
}

func handleLogin(store *game.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}

		p, secret := store.Login(req.Name)

		writeJSON(w, http.StatusOK, LoginResponse{
			ID:           p.ID,
			Name:         p.Name,
			Token:        secret,
			Games:        p.GameIDs(),
			GamesCreated: p.OwnedGameIDs(),
		})
	}
}
