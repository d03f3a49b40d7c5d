package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/moonhowl/werewolves/internal/game"
)

// CreateGameRequest is the request body for POST /api/games.
type CreateGameRequest struct {
	Name string `json:"name"`
}

// CreateGameResponse returns the id of the freshly created game.
type CreateGameResponse struct {
	ID string `json:"id"`
}

// GameResponse is the public view of a game. Role ownership is secret; only
// the dealt multiset is exposed.
type GameResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Owner           string    `json:"owner"`
	Phase           int       `json:"phase"`
	Players         []string  `json:"players"`
	PlayersAlive    []string  `json:"playersAlive"`
	KilledLastNight []string  `json:"killedLastNight"`
	Cards           []string  `json:"cards"`
	CreatedAt       time.Time `json:"createdAt"`
	TimeLeft        int       `json:"timeLeft"`
	PlayerCount     int       `json:"playerCount"`
	Mayor           string    `json:"mayor,omitempty"`
}

// ListGamesResponse is the response for GET /api/games.
type ListGamesResponse struct {
	Games []string `json:"games"`
}

func toGameResponse(v game.View) GameResponse {
	return GameResponse{
		ID:              v.ID,
		Name:            v.Name,
		Owner:           v.OwnerID,
		Phase:           int(v.Phase),
		Players:         v.Players,
		PlayersAlive:    v.Alive,
		KilledLastNight: v.KilledLastNight,
		Cards:           v.Cards,
		CreatedAt:       v.CreatedAt,
		TimeLeft:        v.TimeLeft,
		PlayerCount:     v.PlayerCount,
		Mayor:           v.Mayor,
	}
}

func handleCreateGame(store *game.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateGameRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}

		g := store.CreateGame(playerFrom(r), req.Name)
		writeJSON(w, http.StatusOK, CreateGameResponse{ID: g.ID})
	}
}

func handleListGames(store *game.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, ListGamesResponse{Games: store.GameIDs()})
	}
}

// handleGameStatus is the polling endpoint that doubles as the game clock:
// every read ticks the phase machine before snapshotting.
func handleGameStatus(store *game.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, ok := store.FindGame(chi.URLParam(r, "gameID"))
		if !ok {
			writeGameError(w, game.ErrGameNotFound)
			return
		}

		g.Tick(false)
		writeJSON(w, http.StatusOK, toGameResponse(g.View()))
	}
}

func handleJoinGame(store *game.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, err := store.JoinGame(playerFrom(r), chi.URLParam(r, "gameID"))
		if err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toGameResponse(g.View()))
	}
}

func handleLeaveGame(store *game.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.LeaveGame(playerFrom(r), chi.URLParam(r, "gameID")); err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct{}{})
	}
}

func handleStartGame(store *game.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.StartGame(playerFrom(r), chi.URLParam(r, "gameID")); err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct{}{})
	}
}
