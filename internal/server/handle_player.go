package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/moonhowl/werewolves/internal/game"
)

// PlayerResponse is the public view of a player. The private fields (cards,
// love pairings, current game) are filled only when a player asks about
// themselves. The auth secret is never part of any view.
type PlayerResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Games        []string `json:"games"`
	GamesCreated []string `json:"gamesCreated"`

	Cards       map[string]string   `json:"cards,omitempty"`
	Love        map[string][]string `json:"love,omitempty"`
	CurrentGame string              `json:"currentGame,omitempty"`
}

func handlePlayerStatus(store *game.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target, ok := store.FindPlayer(chi.URLParam(r, "playerID"))
		if !ok {
			writeGameError(w, game.ErrPlayerNotFound)
			return
		}

		resp := PlayerResponse{
			ID:           target.ID,
			Name:         target.Name,
			Games:        target.GameIDs(),
			GamesCreated: target.OwnedGameIDs(),
		}

		if playerFrom(r).ID == target.ID {
			resp.Cards = make(map[string]string)
			resp.Love = make(map[string][]string)
			for _, gameID := range resp.Games {
				g, ok := store.FindGame(gameID)
				if !ok {
					continue
				}
				if card, ok := g.CardFor(target.ID); ok {
					resp.Cards[gameID] = string(card.Role)
				}
				if lovers := g.LoversOf(target.ID); len(lovers) > 0 {
					resp.Love[gameID] = lovers
				}
			}
			resp.CurrentGame = target.ActiveGame()
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
