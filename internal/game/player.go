package game

import (
	"slices"
	"sync"
	"time"
)

// Player is an account/session identity. ID and SecretHash never change
// after creation. Role cards and love pairings live on the Game side, keyed
// by player id; the player only tracks which games it belongs to.
type Player struct {
	ID         string
	Name       string
	SecretHash []byte
	CreatedAt  time.Time

	mu           sync.Mutex
	games        map[string]struct{}
	owned        map[string]struct{}
	activeGame   string
	lastActivity time.Time
}

func (p *Player) joinedGame(gameID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.games[gameID] = struct{}{}
	p.activeGame = gameID
}

func (p *Player) leftGame(gameID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.games, gameID)
	if p.activeGame == gameID {
		p.activeGame = ""
	}
}

func (p *Player) ownsGame(gameID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.owned[gameID] = struct{}{}
}

// Touch records activity; called by the auth middleware on every
// authenticated request. The purge sweep keys off this timestamp.
func (p *Player) Touch() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastActivity = time.Now()
}

func (p *Player) LastActivity() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastActivity
}

// GameIDs returns the ids of games the player belongs to, sorted.
func (p *Player) GameIDs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return sortedKeys(p.games)
}

// OwnedGameIDs returns the ids of games the player created, sorted.
func (p *Player) OwnedGameIDs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return sortedKeys(p.owned)
}

// ActiveGame returns the id of the game currently occupying the player, or
// "" when there is none.
func (p *Player) ActiveGame() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.activeGame
}

func sortedKeys(m map[string]struct{}) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
