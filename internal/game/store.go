package game

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Store is the process-wide registry of players and games. Everything is
// memory-resident; a restart loses all state by design.
//
// Lock order is store → game → player. Request paths release the store lock
// before touching a game, so only the purge sweep ever holds both.
type Store struct {
	logger *slog.Logger

	mu      sync.RWMutex
	players map[string]*Player
	games   map[string]*Game
}

func NewStore(logger *slog.Logger) *Store {
	return &Store{
		logger:  logger,
		players: make(map[string]*Player),
		games:   make(map[string]*Game),
	}
}

// Login creates a new player and returns it together with the auth secret.
// The secret is handed out exactly once; only its bcrypt hash is retained.
func (s *Store) Login(name string) (*Player, string) {
	secret := uuid.NewString()
	// MinCost: the secret is a random UUID, not a human password, and every
	// polled request re-verifies it.
	hash, _ := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.MinCost)

	p := &Player{
		ID:           uuid.NewString(),
		Name:         name,
		SecretHash:   hash,
		CreatedAt:    time.Now(),
		games:        make(map[string]struct{}),
		owned:        make(map[string]struct{}),
		lastActivity: time.Now(),
	}

	s.mu.Lock()
	s.players[p.ID] = p
	s.mu.Unlock()

	s.logger.Info("player logged in", "player", p.ID, "name", name)
	return p, secret
}

// Authenticate returns the player when the secret matches. Unknown ids and
// wrong secrets are indistinguishable to the caller. It does not update
// activity; the caller does that after a successful match.
func (s *Store) Authenticate(id, secret string) (*Player, bool) {
	s.mu.RLock()
	p := s.players[id]
	s.mu.RUnlock()
	if p == nil {
		return nil, false
	}
	if bcrypt.CompareHashAndPassword(p.SecretHash, []byte(secret)) != nil {
		return nil, false
	}
	return p, true
}

// FindPlayer looks up a player by id.
func (s *Store) FindPlayer(id string) (*Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[id]
	return p, ok
}

// FindGame looks up a game by id.
func (s *Store) FindGame(id string) (*Game, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.games[id]
	return g, ok
}

// CreateGame registers a new game owned by the player, who joins it
// immediately.
func (s *Store) CreateGame(owner *Player, name string) *Game {
	g := newGame(uuid.NewString(), name, owner.ID, s.logger)

	s.mu.Lock()
	s.games[g.ID] = g
	s.mu.Unlock()

	_ = g.Join(owner.ID) // fresh game, always joinable
	owner.joinedGame(g.ID)
	owner.ownsGame(g.ID)

	s.logger.Info("game created", "game", g.ID, "name", name, "owner", owner.ID)
	return g
}

// JoinGame adds the player to a not-yet-started game.
func (s *Store) JoinGame(p *Player, gameID string) (*Game, error) {
	g, ok := s.FindGame(gameID)
	if !ok {
		return nil, ErrGameNotFound
	}
	if err := g.Join(p.ID); err != nil {
		return nil, err
	}
	p.joinedGame(g.ID)
	s.logger.Info("player joined game", "game", g.ID, "player", p.ID)
	return g, nil
}

// LeaveGame removes the player from a game they joined before it started.
func (s *Store) LeaveGame(p *Player, gameID string) error {
	g, ok := s.FindGame(gameID)
	if !ok {
		return ErrGameNotFound
	}
	if err := g.Leave(p.ID); err != nil {
		return err
	}
	p.leftGame(g.ID)
	s.logger.Info("player left game", "game", g.ID, "player", p.ID)
	return nil
}

// StartGame starts the game; only the owner may do this.
func (s *Store) StartGame(p *Player, gameID string) error {
	g, ok := s.FindGame(gameID)
	if !ok {
		return ErrGameNotFound
	}
	if g.OwnerID != p.ID {
		return ErrNotAllowed
	}
	return g.Start()
}

// GameIDs lists the ids of every game in the store, sorted.
func (s *Store) GameIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.games))
	for id := range s.games {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Counts returns the number of players and games currently registered.
func (s *Store) Counts() (players, games int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players), len(s.games)
}

// Purge evicts players idle for at least ttl, removing them from every game
// they belong to, then drops games left with no players. Returns the removed
// counts. Safe against in-flight requests: the store write lock is held for
// the whole sweep and game locks are taken underneath it, matching the
// global lock order.
func (s *Store) Purge(ttl time.Duration) (playersRemoved, gamesRemoved int) {
	start := time.Now()
	cutoff := start.Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, p := range s.players {
		if p.LastActivity().After(cutoff) {
			continue
		}
		for _, gameID := range p.GameIDs() {
			if g := s.games[gameID]; g != nil {
				g.RemovePlayer(id)
			}
		}
		delete(s.players, id)
		playersRemoved++
	}

	for id, g := range s.games {
		if g.PlayerCount() == 0 {
			delete(s.games, id)
			gamesRemoved++
		}
	}

	s.logger.Debug("purge finished",
		"players_removed", playersRemoved,
		"games_removed", gamesRemoved,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return playersRemoved, gamesRemoved
}
