package game

import (
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"
	"time"
)

// Phase deadlines. Once a deadline elapses the next Tick force-advances the
// phase even without a full vote.
const (
	mayorVoteDeadline  = time.Minute
	nightDeadline      = time.Minute
	sorceressDeadline  = 30 * time.Second
	dayVoteDeadline    = 5 * time.Minute
	minPlayersPerMatch = 2
)

// Game is the phase state machine, vote ledger, and ability resolver for one
// match. All mutable state is guarded by mu; entities are referenced by id
// only, never by pointer, so a Game can be reasoned about in isolation.
//
// Advancement is pull-based: nothing moves until someone calls Tick, which
// happens on every status poll. A game nobody polls stalls past its deadline;
// that is accepted behavior, not a bug.
type Game struct {
	ID        string
	Name      string
	OwnerID   string
	CreatedAt time.Time

	logger *slog.Logger

	mu         sync.Mutex
	phase      Phase
	firstNight bool
	players    map[string]struct{}
	alive      map[string]struct{}
	killed     map[string]struct{} // killed during the current night
	cards      map[string]*Card    // by player id, populated at start
	dealt      []Role              // dealt multiset, in deal order
	votes      map[string][]string // voter id -> chosen target ids
	lovers     map[string][]string // player id -> partner ids (cupid)
	mayor      string
	deadline   time.Time
}

func newGame(id, name, ownerID string, logger *slog.Logger) *Game {
	return &Game{
		ID:         id,
		Name:       name,
		OwnerID:    ownerID,
		CreatedAt:  time.Now(),
		logger:     logger,
		phase:      PhaseNotStarted,
		firstNight: true,
		players:    make(map[string]struct{}),
		alive:      make(map[string]struct{}),
		killed:     make(map[string]struct{}),
		cards:      make(map[string]*Card),
		votes:      make(map[string][]string),
		lovers:     make(map[string][]string),
	}
}

// Join adds a player to the lobby. The membership set is frozen once the
// game starts.
func (g *Game) Join(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.phase != PhaseNotStarted {
		return ErrGameNotJoinable
	}
	g.players[playerID] = struct{}{}
	return nil
}

// Leave removes a player from the lobby. Only valid before the game starts;
// a started game's membership is frozen.
func (g *Game) Leave(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.players[playerID]; !ok {
		return ErrNotInGame
	}
	if g.phase != PhaseNotStarted {
		return ErrGameNotJoinable
	}
	delete(g.players, playerID)
	return nil
}

// Start deals cards and opens the mayor election. Fails with ErrGameCantStart
// when fewer than two players joined.
func (g *Game) Start() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.phase != PhaseNotStarted {
		return ErrGameCantStart
	}
	if len(g.players) < minPlayersPerMatch {
		return ErrGameCantStart
	}
	g.deal()
	g.phase = PhaseStarted
	g.deadline = time.Now().Add(mayorVoteDeadline)
	g.logger.Info("game started",
		"game", g.ID,
		"players", len(g.players),
		"cards", g.dealt,
	)
	return nil
}

// deal picks the role multiset from the player count, pads it with villagers,
// shuffles and assigns one card per player. Caller holds g.mu.
func (g *Game) deal() {
	count := len(g.players)

	var roles []Role
	switch {
	case count < 3:
		roles = []Role{RoleWerewolf}
	case count < 5:
		roles = []Role{RoleWerewolf, RoleSorceress}
	case count <= 7:
		roles = []Role{RoleWerewolf, RoleWerewolf, RoleSorceress}
	case count <= 9:
		roles = []Role{RoleWerewolf, RoleWerewolf, RoleSorceress, RoleStealer, RoleCupid}
	case count <= 11:
		roles = []Role{RoleWerewolf, RoleWerewolf, RoleWerewolf, RoleSorceress, RoleStealer, RoleCupid}
	default:
		roles = []Role{RoleWerewolf, RoleWerewolf, RoleWerewolf, RoleWerewolf, RoleSorceress, RoleStealer, RoleCupid}
	}
	for len(roles) < count {
		roles = append(roles, RoleVillager)
	}

	rand.Shuffle(len(roles), func(i, j int) {
		roles[i], roles[j] = roles[j], roles[i]
	})

	g.dealt = roles
	i := 0
	for playerID := range g.players {
		g.cards[playerID] = newCard(roles[i], playerID, g.ID)
		g.alive[playerID] = struct{}{}
		i++
	}
}

// Vote records the voter's chosen targets for the current phase. Every
// target, and the voter, must be alive.
func (g *Game) Vote(voterID string, targets []string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.players[voterID]; !ok {
		return ErrNotInGame
	}
	if _, ok := g.alive[voterID]; !ok {
		return ErrPlayerNotAlive
	}

	distinct := make([]string, 0, len(targets))
	for _, target := range targets {
		if _, ok := g.alive[target]; !ok {
			return ErrPlayerNotAlive
		}
		if !slices.Contains(distinct, target) {
			distinct = append(distinct, target)
		}
	}
	g.votes[voterID] = distinct
	return nil
}

// SorceressSelect spends one of the sorceress potions: save resurrects this
// night's victim, kill eliminates a living player. Each potion works once per
// game. All checks happen before any mutation.
func (g *Game) SorceressSelect(playerID, targetID string, save bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	card, ok := g.cards[playerID]
	if !ok {
		return ErrNotInGame
	}
	if card.Role != RoleSorceress {
		return ErrNotAllowed
	}

	if save {
		if _, ok := g.killed[targetID]; !ok {
			return ErrPlayerAlive
		}
		if !card.HealPotion {
			return ErrNoHealPotion
		}
		card.HealPotion = false
		delete(g.killed, targetID)
		g.alive[targetID] = struct{}{}
		return nil
	}

	if _, ok := g.alive[targetID]; !ok {
		return ErrPlayerNotAlive
	}
	if !card.KillPotion {
		return ErrNoKillPotion
	}
	card.KillPotion = false
	delete(g.alive, targetID)
	g.killed[targetID] = struct{}{}
	return nil
}

// Tick advances the state machine by at most one stage. It is the only entry
// point that moves the phase forward and is safe to call on every status
// read: without new votes or an elapsed deadline it is a no-op.
func (g *Game) Tick(force bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tick(force)
}

func (g *Game) tick(force bool) {
	if g.phase == PhaseNotStarted {
		return
	}
	now := time.Now()

	if len(g.alive) > 0 && len(g.votes) >= len(g.alive) {
		force = true
	}

	// Sub-phases where only specific roles vote complete as soon as those
	// roles have spoken.
	switch g.phase {
	case PhaseNightStealer:
		if id, ok := g.holderOf(RoleStealer); ok {
			if _, voted := g.votes[id]; voted {
				force = true
			}
		}
	case PhaseNightCupid:
		if id, ok := g.holderOf(RoleCupid); ok {
			if _, voted := g.votes[id]; voted {
				force = true
			}
		}
	case PhaseNightWerewolves:
		all := true
		for id := range g.alive {
			if c := g.cards[id]; c != nil && c.Role == RoleWerewolf {
				if _, voted := g.votes[id]; !voted {
					all = false
					break
				}
			}
		}
		if all {
			force = true
		}
	}

	// Last player standing ends the game regardless of phase.
	if len(g.alive) <= 1 {
		g.phase = PhaseFinished
		return
	}

	if now.Before(g.deadline) && !force {
		return
	}

	// Role presence among the living, snapshotted before any effects apply.
	roles := g.aliveRoles()

	g.logger.Info("phase complete", "game", g.ID, "phase", g.phase.String())

	if g.phase <= PhaseStarted && g.firstNight {
		g.mayor, _ = g.tally(false)
		g.logger.Debug("mayor elected", "game", g.ID, "mayor", g.mayor)
		if roles[RoleStealer] {
			g.phase = PhaseNightStealer
			g.deadline = now.Add(nightDeadline)
			return
		}
	}

	if g.phase <= PhaseNightStealer && g.firstNight {
		if roles[RoleStealer] {
			g.resolveStealer()
		}
		if roles[RoleCupid] {
			g.votes = make(map[string][]string)
			g.phase = PhaseNightCupid
			g.deadline = now.Add(nightDeadline)
			return
		}
	}

	if g.phase <= PhaseNightCupid {
		if roles[RoleCupid] {
			g.resolveCupid()
		}
		g.beginNight(now)
		return
	}

	if g.phase <= PhaseNightWerewolves {
		victim, _ := g.tally(true)
		delete(g.alive, victim)
		g.killed[victim] = struct{}{}
		g.logger.Info("werewolves struck", "game", g.ID, "victim", victim)

		// Only a living sorceress gets her sub-phase.
		if g.aliveRoles()[RoleSorceress] {
			g.phase = PhaseNightSorceress
			g.deadline = now.Add(sorceressDeadline)
			return
		}
	}

	if g.phase <= PhaseNightSorceress {
		g.firstNight = false
		g.votes = make(map[string][]string)
		g.phase = PhaseDayVote
		g.deadline = now.Add(dayVoteDeadline)
		return
	}

	if g.phase <= PhaseDayHunter {
		victim, _ := g.tally(false)
		delete(g.alive, victim)
		g.logger.Info("village voted out", "game", g.ID, "victim", victim)
		g.beginNight(now)
		return
	}
}

// beginNight transitions into the werewolf night: the previous night's
// casualties and the vote ledger are cleared. Caller holds g.mu.
func (g *Game) beginNight(now time.Time) {
	g.killed = make(map[string]struct{})
	g.votes = make(map[string][]string)
	g.phase = PhaseNightWerewolves
	g.deadline = now.Add(nightDeadline)
}

// resolveStealer swaps the stealer's card with the card of the player it
// selected. Missing or unfillable votes skip the ability. Caller holds g.mu.
func (g *Game) resolveStealer() {
	stealerID, ok := g.holderOf(RoleStealer)
	if !ok {
		return
	}
	picks, err := g.votesFor(stealerID, 1)
	if err != nil {
		g.logger.Warn("stealer skipped", "game", g.ID, "error", err)
		return
	}
	victimID := picks[0]
	if victimID == stealerID {
		return
	}
	stolen, mine := g.cards[victimID], g.cards[stealerID]
	if stolen == nil {
		return
	}
	g.cards[stealerID], g.cards[victimID] = stolen, mine
	stolen.OwnerID = stealerID
	mine.OwnerID = victimID
	g.logger.Info("card stolen", "game", g.ID, "stealer", stealerID, "from", victimID)
}

// resolveCupid records the two selected players as each other's love
// pairing. The pairing is a pure relation with no mechanical consequence.
// Caller holds g.mu.
func (g *Game) resolveCupid() {
	cupidID, ok := g.holderOf(RoleCupid)
	if !ok {
		return
	}
	pair, err := g.votesFor(cupidID, 2)
	if err != nil {
		g.logger.Warn("cupid skipped", "game", g.ID, "error", err)
		return
	}
	for _, id := range pair {
		for _, partner := range pair {
			if partner != id {
				g.lovers[id] = append(g.lovers[id], partner)
			}
		}
	}
	g.logger.Info("lovers paired", "game", g.ID, "lovers", pair)
}

// votesFor returns n distinct target ids chosen by the voter, filling any
// shortfall with random living players. Fails with ErrNotEnoughPlayers when
// n is not strictly below the living count.
func (g *Game) votesFor(voterID string, n int) ([]string, error) {
	if n >= len(g.alive) {
		return nil, ErrNotEnoughPlayers
	}
	picks := slices.Clone(g.votes[voterID])
	for len(picks) < n {
		candidate := g.randomAlive()
		if !slices.Contains(picks, candidate) {
			picks = append(picks, candidate)
		}
	}
	return picks[:n], nil
}

// tally counts the first target of each relevant voter and returns the
// winner plus the raw ledger, clearing the ledger. Ties break to the lowest
// player id among the max-count candidates. An empty ledger elects a random
// living player so phases always complete, even with an unresponsive lobby.
func (g *Game) tally(onlyWerewolves bool) (string, map[string][]string) {
	counts := make(map[string]int)
	for voterID, targets := range g.votes {
		if onlyWerewolves {
			if c := g.cards[voterID]; c == nil || c.Role != RoleWerewolf {
				continue
			}
		}
		if len(targets) == 0 {
			continue
		}
		first := targets[0]
		if _, ok := g.alive[first]; !ok {
			continue
		}
		counts[first]++
	}

	winner, best := "", 0
	for id, n := range counts {
		if n > best || (n == best && id < winner) {
			winner, best = id, n
		}
	}
	if winner == "" {
		winner = g.randomAlive()
	}

	ledger := g.votes
	g.votes = make(map[string][]string)
	return winner, ledger
}

func (g *Game) randomAlive() string {
	if len(g.alive) == 0 {
		return ""
	}
	n := rand.IntN(len(g.alive))
	for id := range g.alive {
		if n == 0 {
			return id
		}
		n--
	}
	return ""
}

// holderOf returns the living player currently holding the role's card.
func (g *Game) holderOf(role Role) (string, bool) {
	for id := range g.alive {
		if c := g.cards[id]; c != nil && c.Role == role {
			return id, true
		}
	}
	return "", false
}

// aliveRoles reports which roles are held by living players.
func (g *Game) aliveRoles() map[Role]bool {
	roles := make(map[Role]bool)
	for id := range g.alive {
		if c := g.cards[id]; c != nil {
			roles[c.Role] = true
		}
	}
	return roles
}

// Phase returns the current phase.
func (g *Game) Phase() Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase
}

// HasPlayer reports whether the player belongs to this game.
func (g *Game) HasPlayer(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.players[playerID]
	return ok
}

// PlayerCount returns the number of players in the game.
func (g *Game) PlayerCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.players)
}

// CardFor returns a copy of the card dealt to the player.
func (g *Game) CardFor(playerID string) (Card, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := g.cards[playerID]
	if !ok {
		return Card{}, false
	}
	return *c, true
}

// LoversOf returns the player's love pairing partners, if any.
func (g *Game) LoversOf(playerID string) []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.lovers[playerID])
}

// RemovePlayer drops the player from the game's membership and living sets.
// Used by the purge sweep; vote entries from the player are discarded too so
// the ledger never references evicted ids.
func (g *Game) RemovePlayer(playerID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.players, playerID)
	delete(g.alive, playerID)
	delete(g.killed, playerID)
	delete(g.votes, playerID)
}

// View is the public snapshot of a game, safe to show any player. Secret
// role assignments are never included; the dealt multiset is public
// knowledge, ownership is not.
type View struct {
	ID              string
	Name            string
	OwnerID         string
	Phase           Phase
	Players         []string
	Alive           []string
	KilledLastNight []string
	Cards           []string
	CreatedAt       time.Time
	TimeLeft        int
	PlayerCount     int
	Mayor           string
}

// View returns a consistent public snapshot of the game.
func (g *Game) View() View {
	g.mu.Lock()
	defer g.mu.Unlock()

	cards := make([]string, len(g.dealt))
	for i, role := range g.dealt {
		cards[i] = string(role)
	}

	return View{
		ID:              g.ID,
		Name:            g.Name,
		OwnerID:         g.OwnerID,
		Phase:           g.phase,
		Players:         sortedKeys(g.players),
		Alive:           sortedKeys(g.alive),
		KilledLastNight: sortedKeys(g.killed),
		Cards:           cards,
		CreatedAt:       g.CreatedAt,
		TimeLeft:        int(time.Until(g.deadline).Seconds()),
		PlayerCount:     len(g.players),
		Mayor:           g.mayor,
	}
}
