package game

// Phase is one stage of a game's state machine. Values are part of the wire
// contract (clients switch on the number), so they never change. Order is
// forward-only except for the day → night wrap-around.
type Phase int

const (
	PhaseNotStarted      Phase = 0
	PhaseStarted         Phase = 1
	PhaseNightStealer    Phase = 10
	PhaseNightCupid      Phase = 11
	PhaseNightWerewolves Phase = 12
	PhaseNightSorceress  Phase = 13
	PhaseDayVote         Phase = 20
	PhaseDayHunter       Phase = 21
	PhaseFinished        Phase = 99
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not_started"
	case PhaseStarted:
		return "started"
	case PhaseNightStealer:
		return "night_stealer"
	case PhaseNightCupid:
		return "night_cupid"
	case PhaseNightWerewolves:
		return "night_werewolves"
	case PhaseNightSorceress:
		return "night_sorceress"
	case PhaseDayVote:
		return "day_vote"
	case PhaseDayHunter:
		return "day_hunter"
	case PhaseFinished:
		return "finished"
	}
	return "unknown"
}
