package game

// State identifies where a game is in its lifecycle.
type State int

const (
	WaitingForPlayers State = iota
	WaitingForEstimate
	WaitingForRaiseCallOrFold
	RoundEnded
	GameEnded
)

func (s State) String() string {
	return [...]string{
		"waiting_for_players",
		"waiting_for_estimate",
		"waiting_for_raise_call_or_fold",
		"round_ended",
		"game_ended",
	}[s]
}

// transitions is the allow-list of reachable successor states. Every state
// change goes through Game.transition, so a state not listed here is
// unreachable. GameEnded is terminal. WaitingForEstimate falls back to
// WaitingForPlayers when a player leaves before the round starts.
var transitions = map[State][]State{
	WaitingForPlayers:         {WaitingForEstimate},
	WaitingForEstimate:        {WaitingForPlayers, WaitingForRaiseCallOrFold, RoundEnded},
	WaitingForRaiseCallOrFold: {RoundEnded},
	RoundEnded:                {WaitingForEstimate, GameEnded},
	GameEnded:                 {},
}

func canTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
