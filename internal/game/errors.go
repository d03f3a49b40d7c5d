package game

import "errors"

// Sentinel errors for every user-facing failure. Handlers match these with
// errors.Is and translate them to HTTP statuses; none of them indicate a
// server fault.
var (
	ErrGameNotFound     = errors.New("game not found")
	ErrGameNotJoinable  = errors.New("game already started")
	ErrNotInGame        = errors.New("player is not in this game")
	ErrPlayerNotFound   = errors.New("player not found")
	ErrNotAllowed       = errors.New("operation not allowed")
	ErrGameCantStart    = errors.New("game can't start")
	ErrPlayerNotAlive   = errors.New("player is not alive")
	ErrPlayerAlive      = errors.New("player is alive")
	ErrNoHealPotion     = errors.New("heal potion already spent")
	ErrNoKillPotion     = errors.New("kill potion already spent")
	ErrNotEnoughPlayers = errors.New("not enough living players")
)
