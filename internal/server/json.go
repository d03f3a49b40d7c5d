package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/moonhowl/werewolves/internal/game"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, ErrorResponse{Error: code})
}

// errorCodes maps every domain sentinel to its wire code and HTTP status.
var errorCodes = []struct {
	err    error
	status int
	code   string
}{
	{game.ErrGameNotFound, http.StatusNotFound, "GameNotFound"},
	{game.ErrPlayerNotFound, http.StatusNotFound, "PlayerNotFound"},
	{game.ErrNotAllowed, http.StatusForbidden, "NotAllowed"},
	{game.ErrGameNotJoinable, http.StatusConflict, "GameNotJoinable"},
	{game.ErrNotInGame, http.StatusConflict, "NotInGame"},
	{game.ErrGameCantStart, http.StatusConflict, "GameCantStart"},
	{game.ErrPlayerNotAlive, http.StatusConflict, "PlayerNotAlive"},
	{game.ErrPlayerAlive, http.StatusConflict, "PlayerAlive"},
	{game.ErrNoHealPotion, http.StatusConflict, "NoHealPotion"},
	{game.ErrNoKillPotion, http.StatusConflict, "NoKillPotion"},
	{game.ErrNotEnoughPlayers, http.StatusConflict, "NotEnoughPlayers"},
}

// writeGameError translates a domain error into its wire representation.
func writeGameError(w http.ResponseWriter, err error) {
	for _, c := range errorCodes {
		if errors.Is(err, c.err) {
			writeError(w, c.status, c.code)
			return
		}
	}
	writeError(w, http.StatusInternalServerError, "internal error")
}
