// Package game implements the authoritative state machine for a two-player
// estimation wagering match. A Game is an immutable value: every mutator
// validates its preconditions, then returns a new Game with the transition
// applied, leaving the receiver untouched. A failed call returns the zero
// Game and an error from the taxonomy in errors.go; callers keep using the
// prior value.
package game

import (
	"fmt"
	"maps"
	"slices"
)

// MaxPlayers is the number of seats in a game.
const MaxPlayers = 2

// Game is a snapshot of a single match: seating, roles, the current round's
// problem, prediction and ante ledger, and the lifecycle state.
type Game struct {
	id            string
	state         State
	usernames     []string
	problem       Problem
	estimator     string
	prediction    *Prediction
	currentPlayer string
	antes         map[string]int
	folded        map[string]bool
	playAgain     map[string]bool
}

// New creates an empty game for the given id and opening problem. The first
// player to join becomes estimator and holds the opening turn.
func New(id string, problem Problem) Game {
	return Game{
		id:        id,
		state:     WaitingForPlayers,
		problem:   problem,
		antes:     map[string]int{},
		folded:    map[string]bool{},
		playAgain: map[string]bool{},
	}
}

// clone returns a copy whose maps and slices are safe to mutate.
func (g Game) clone() Game {
	g.usernames = slices.Clone(g.usernames)
	g.antes = maps.Clone(g.antes)
	g.folded = maps.Clone(g.folded)
	g.playAgain = maps.Clone(g.playAgain)
	return g
}

// transition moves the game to a new state, enforcing the allow-list.
func (g Game) transition(to State) (Game, error) {
	if !canTransition(g.state, to) {
		return Game{}, &InvalidStateError{From: g.state, To: to}
	}
	g.state = to
	return g, nil
}

// ID returns the game's identifier.
func (g Game) ID() string { return g.id }

// State returns the current lifecycle state.
func (g Game) State() State { return g.state }

// Problem returns the current round's problem.
func (g Game) Problem() Problem { return g.problem }

// Usernames returns the seated usernames in join order.
func (g Game) Usernames() []string { return slices.Clone(g.usernames) }

// Contains reports whether username is seated.
func (g Game) Contains(username string) bool {
	return slices.Contains(g.usernames, username)
}

// NumPlayers returns the number of seated players.
func (g Game) NumPlayers() int { return len(g.usernames) }

// IsFull reports whether both seats are taken.
func (g Game) IsFull() bool { return len(g.usernames) == MaxPlayers }

// IsPlayerWaiting reports whether exactly one player is seated.
func (g Game) IsPlayerWaiting() bool { return len(g.usernames) == 1 }

// Estimator returns the username in the estimator role, or "".
func (g Game) Estimator() string { return g.estimator }

// CurrentPlayer returns the username whose turn it is, or "".
func (g Game) CurrentPlayer() string { return g.currentPlayer }

// IsEstimator reports whether username holds the estimator role.
func (g Game) IsEstimator(username string) (bool, error) {
	if !g.IsFull() {
		return false, fmt.Errorf("%w: need %d players", ErrInsufficientPlayers, MaxPlayers)
	}
	if !g.Contains(username) {
		return false, fmt.Errorf("%w: %q", ErrNotSeated, username)
	}
	return g.estimator == username, nil
}

// IsTurn reports whether it is username's turn to act.
func (g Game) IsTurn(username string) (bool, error) {
	if !g.Contains(username) {
		return false, fmt.Errorf("%w: %q", ErrNotSeated, username)
	}
	return g.currentPlayer == username, nil
}

// Opponent returns the other seated username.
func (g Game) Opponent(username string) (string, error) {
	if !g.Contains(username) {
		return "", fmt.Errorf("%w: %q", ErrNotSeated, username)
	}
	if !g.IsFull() {
		return "", fmt.Errorf("%w: %q has no opponent yet", ErrInsufficientPlayers, username)
	}
	for _, u := range g.usernames {
		if u != username {
			return u, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrNotSeated, username)
}

// Join seats a new player. The first joiner becomes estimator and current
// player; the second join starts the estimate-collection phase.
func (g Game) Join(username string) (Game, error) {
	if err := ValidateUsername(username); err != nil {
		return Game{}, err
	}
	if g.Contains(username) {
		return Game{}, fmt.Errorf("%w: %q is already seated", ErrInvalidUsername, username)
	}
	if g.IsFull() {
		return Game{}, fmt.Errorf("%w: %d players already seated", ErrCapacity, MaxPlayers)
	}

	g = g.clone()
	g.usernames = append(g.usernames, username)
	if len(g.usernames) == 1 {
		g.estimator = username
		g.currentPlayer = username
		return g, nil
	}
	return g.transition(WaitingForEstimate)
}

// Leave unseats a player. Leaving is only allowed while no prediction exists
// for the current round; any roles held pass to the remaining player.
func (g Game) Leave(username string) (Game, error) {
	if !g.Contains(username) {
		return Game{}, fmt.Errorf("%w: %q", ErrNotSeated, username)
	}
	if g.prediction != nil || (g.state != WaitingForPlayers && g.state != WaitingForEstimate) {
		return Game{}, fmt.Errorf("%w: %q cannot leave mid-round", ErrIllegalAction, username)
	}

	g = g.clone()
	g.usernames = slices.DeleteFunc(g.usernames, func(u string) bool { return u == username })
	delete(g.antes, username)
	delete(g.folded, username)
	delete(g.playAgain, username)

	remaining := ""
	if len(g.usernames) == 1 {
		remaining = g.usernames[0]
	}
	if g.estimator == username {
		g.estimator = remaining
	}
	if g.currentPlayer == username {
		g.currentPlayer = remaining
	}
	if g.state == WaitingForEstimate {
		return g.transition(WaitingForPlayers)
	}
	return g, nil
}

// SetEstimator assigns the estimator role.
func (g Game) SetEstimator(username string) (Game, error) {
	if !g.Contains(username) {
		return Game{}, fmt.Errorf("%w: %q", ErrNotSeated, username)
	}
	g = g.clone()
	g.estimator = username
	return g, nil
}

// SetCurrentPlayer assigns the turn.
func (g Game) SetCurrentPlayer(username string) (Game, error) {
	if !g.Contains(username) {
		return Game{}, fmt.Errorf("%w: %q", ErrNotSeated, username)
	}
	g = g.clone()
	g.currentPlayer = username
	return g, nil
}

// SwitchTurns hands the turn to the other player.
func (g Game) SwitchTurns() (Game, error) {
	if g.currentPlayer == "" {
		return Game{}, fmt.Errorf("%w: no current player", ErrIllegalAction)
	}
	opponent, err := g.Opponent(g.currentPlayer)
	if err != nil {
		return Game{}, err
	}
	g = g.clone()
	g.currentPlayer = opponent
	return g, nil
}

// HasPrediction reports whether the round's prediction has been submitted.
func (g Game) HasPrediction() bool { return g.prediction != nil }

// Prediction returns the round's prediction, if submitted.
func (g Game) Prediction() (Prediction, bool) {
	if g.prediction == nil {
		return Prediction{}, false
	}
	return *g.prediction, true
}

// SetPrediction records the estimator's answer for the round. Only legal
// while the game waits for an estimate, with the estimator holding the turn
// and no prediction submitted yet. The estimator's ante opens at 1 and the
// turn passes to the opponent.
func (g Game) SetPrediction(p Prediction) (Game, error) {
	if g.state != WaitingForEstimate {
		return Game{}, fmt.Errorf("%w: not waiting for an estimate", ErrIllegalAction)
	}
	if g.prediction != nil {
		return Game{}, fmt.Errorf("%w: prediction already submitted", ErrIllegalAction)
	}
	if g.estimator == "" || g.currentPlayer != g.estimator {
		return Game{}, fmt.Errorf("%w: estimator does not hold the turn", ErrIllegalAction)
	}
	opponent, err := g.Opponent(g.estimator)
	if err != nil {
		return Game{}, err
	}

	g = g.clone()
	g.prediction = &p
	g.antes[g.estimator] = 1
	g.currentPlayer = opponent
	return g.transition(WaitingForRaiseCallOrFold)
}

// Ante returns username's committed ante for the round. Zero until the
// player has been given an ante.
func (g Game) Ante(username string) (int, error) {
	if !g.Contains(username) {
		return 0, fmt.Errorf("%w: %q", ErrNotSeated, username)
	}
	return g.antes[username], nil
}

// Antes returns the per-player ante ledger.
func (g Game) Antes() map[string]int { return maps.Clone(g.antes) }

// SetAnte sets username's ante directly. The amount must be non-negative and
// at least the opponent's ante; a folded player's ante is frozen.
func (g Game) SetAnte(username string, amount int) (Game, error) {
	if !g.Contains(username) {
		return Game{}, fmt.Errorf("%w: %q", ErrNotSeated, username)
	}
	if g.prediction == nil {
		return Game{}, fmt.Errorf("%w: no prediction to bet against", ErrIllegalAction)
	}
	if g.folded[username] {
		return Game{}, fmt.Errorf("%w: %q has folded", ErrIllegalAction, username)
	}
	if amount < 0 {
		return Game{}, fmt.Errorf("%w: ante %d is negative", ErrIllegalAction, amount)
	}
	opponent, err := g.Opponent(username)
	if err != nil {
		return Game{}, err
	}
	if amount < g.antes[opponent] {
		return Game{}, fmt.Errorf("%w: ante %d below opponent's %d", ErrIllegalAction, amount, g.antes[opponent])
	}
	g = g.clone()
	g.antes[username] = amount
	return g, nil
}

// checkBid validates the shared preconditions of RaiseAnte and CallAnte:
// a submitted prediction, the acting player's turn, no fold, and an ante
// strictly below the opponent's. Returns the opponent's username.
func (g Game) checkBid(username string) (string, error) {
	if !g.Contains(username) {
		return "", fmt.Errorf("%w: %q", ErrNotSeated, username)
	}
	opponent, err := g.Opponent(username)
	if err != nil {
		return "", err
	}
	if g.prediction == nil {
		return "", fmt.Errorf("%w: no prediction to bet against", ErrIllegalAction)
	}
	if g.folded[username] {
		return "", fmt.Errorf("%w: %q has folded", ErrIllegalAction, username)
	}
	if g.folded[opponent] {
		return "", fmt.Errorf("%w: %q has folded", ErrIllegalAction, opponent)
	}
	if g.currentPlayer != username {
		return "", fmt.Errorf("%w: not %q's turn", ErrIllegalAction, username)
	}
	if g.antes[username] >= g.antes[opponent] {
		return "", fmt.Errorf("%w: ante %d is not below opponent's %d", ErrIllegalAction, g.antes[username], g.antes[opponent])
	}
	return opponent, nil
}

// RaiseAnte raises username's ante to one above the opponent's and passes
// the turn.
func (g Game) RaiseAnte(username string) (Game, error) {
	opponent, err := g.checkBid(username)
	if err != nil {
		return Game{}, err
	}
	g = g.clone()
	g.antes[username] = g.antes[opponent] + 1
	g.currentPlayer = opponent
	return g, nil
}

// CallAnte equalizes username's ante with the opponent's and ends the round.
func (g Game) CallAnte(username string) (Game, error) {
	opponent, err := g.checkBid(username)
	if err != nil {
		return Game{}, err
	}
	g = g.clone()
	g.antes[username] = g.antes[opponent]
	return g.transition(RoundEnded)
}

// Fold marks username as folded and ends the round. Before the prediction is
// submitted either seated player may fold; afterwards folding requires the
// turn.
func (g Game) Fold(username string) (Game, error) {
	if !g.Contains(username) {
		return Game{}, fmt.Errorf("%w: %q", ErrNotSeated, username)
	}
	if g.folded[username] {
		return Game{}, fmt.Errorf("%w: %q has already folded", ErrIllegalAction, username)
	}
	if g.prediction != nil && g.currentPlayer != username {
		return Game{}, fmt.Errorf("%w: not %q's turn", ErrIllegalAction, username)
	}
	g = g.clone()
	g.folded[username] = true
	return g.transition(RoundEnded)
}

// HasFolded reports whether username folded this round.
func (g Game) HasFolded(username string) (bool, error) {
	if !g.Contains(username) {
		return false, fmt.Errorf("%w: %q", ErrNotSeated, username)
	}
	return g.folded[username], nil
}

// calledAnte reports whether the round ended by a call: nobody folded and
// both antes are present and equal. Computed from the ledger, not stored.
func (g Game) calledAnte() bool {
	if len(g.folded) > 0 || len(g.antes) != MaxPlayers {
		return false
	}
	values := slices.Collect(maps.Values(g.antes))
	return values[0] == values[1]
}

// HasCalledAnte reports whether the round ended with equalized antes.
func (g Game) HasCalledAnte(username string) (bool, error) {
	if !g.Contains(username) {
		return false, fmt.Errorf("%w: %q", ErrNotSeated, username)
	}
	return g.calledAnte(), nil
}

// IsPredictionCorrect reports whether the problem's answer falls within the
// prediction's radius.
func (g Game) IsPredictionCorrect() (bool, error) {
	if g.prediction == nil {
		return false, ErrMissingPrediction
	}
	return g.prediction.Covers(g.problem.LogAnswer), nil
}

// HasWinner reports whether the round is decided, by fold or by call.
func (g Game) HasWinner() bool {
	return len(g.folded) > 0 || g.calledAnte()
}

// IsWinner reports whether username won the round. On a fold the non-folder
// wins outright; on a call the estimator wins iff the prediction was
// correct.
func (g Game) IsWinner(username string) (bool, error) {
	if !g.Contains(username) {
		return false, fmt.Errorf("%w: %q", ErrNotSeated, username)
	}
	if !g.HasWinner() {
		return false, ErrNoWinner
	}
	if len(g.folded) > 0 {
		return !g.folded[username], nil
	}
	correct, err := g.IsPredictionCorrect()
	if err != nil {
		return false, err
	}
	if username == g.estimator {
		return correct, nil
	}
	return !correct, nil
}

// Payout returns username's chip delta for the decided round: positive for
// the winner, negative for the loser. A fold forfeits the higher of the two
// antes; a called round pays the player's ante times the prediction's
// multiplier.
func (g Game) Payout(username string) (int, error) {
	if !g.Contains(username) {
		return 0, fmt.Errorf("%w: %q", ErrNotSeated, username)
	}
	if !g.HasWinner() {
		return 0, ErrNoWinner
	}

	var magnitude int
	if len(g.folded) > 0 {
		for _, ante := range g.antes {
			magnitude = max(magnitude, ante)
		}
	} else {
		magnitude = g.antes[username] * g.prediction.Multiplier()
	}

	won, err := g.IsWinner(username)
	if err != nil {
		return 0, err
	}
	if won {
		return magnitude, nil
	}
	return -magnitude, nil
}

// HasPlayAgain reports whether username opted into another round.
func (g Game) HasPlayAgain(username string) (bool, error) {
	if !g.Contains(username) {
		return false, fmt.Errorf("%w: %q", ErrNotSeated, username)
	}
	return g.playAgain[username], nil
}

// PlayAgain records that username wants another round. Once both players
// have opted in, a new round starts on the supplied problem. On an ended
// game PlayAgain is a no-op.
func (g Game) PlayAgain(username string, problem Problem) (Game, error) {
	if !g.Contains(username) {
		return Game{}, fmt.Errorf("%w: %q", ErrNotSeated, username)
	}
	if g.state == GameEnded {
		return g, nil
	}
	if g.state != RoundEnded {
		return Game{}, fmt.Errorf("%w: round is still in progress", ErrIllegalAction)
	}

	g = g.clone()
	g.playAgain[username] = true
	if len(g.playAgain) < MaxPlayers {
		return g, nil
	}
	return g.StartNewRound(problem)
}

// StartNewRound resets the per-round fields for a fresh problem and swaps
// the estimator to the other player.
func (g Game) StartNewRound(problem Problem) (Game, error) {
	if !g.IsFull() {
		return Game{}, fmt.Errorf("%w: need %d players", ErrInsufficientPlayers, MaxPlayers)
	}
	estimator, err := g.Opponent(g.estimator)
	if err != nil {
		return Game{}, err
	}

	g = g.clone()
	g.problem = problem
	g.estimator = estimator
	g.currentPlayer = estimator
	g.prediction = nil
	g.antes = map[string]int{}
	g.folded = map[string]bool{}
	g.playAgain = map[string]bool{}
	return g.transition(WaitingForEstimate)
}

// End moves the game to its terminal state. Ending an ended game is a no-op.
func (g Game) End() (Game, error) {
	if g.state == GameEnded {
		return g, nil
	}
	return g.transition(GameEnded)
}
