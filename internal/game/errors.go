package game

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidUsername indicates a malformed or unusable username.
	ErrInvalidUsername = errors.New("game: invalid username")

	// ErrCapacity indicates an attempt to seat a third player.
	ErrCapacity = errors.New("game: game is full")

	// ErrNotSeated indicates the username is not part of the game.
	ErrNotSeated = errors.New("game: player not in game")

	// ErrInsufficientPlayers indicates an operation that needs both seats filled.
	ErrInsufficientPlayers = errors.New("game: waiting for another player")

	// ErrIllegalAction indicates an action that violates turn order, fold
	// status, ante monotonicity or a missing-prediction precondition.
	ErrIllegalAction = errors.New("game: illegal action")

	// ErrInvalidPrediction indicates a prediction outside the allowed error range.
	ErrInvalidPrediction = errors.New("game: invalid prediction")

	// ErrMissingPrediction indicates a query that requires a submitted prediction.
	ErrMissingPrediction = errors.New("game: no prediction submitted")

	// ErrNoWinner indicates a payout or winner query on an undecided round.
	ErrNoWinner = errors.New("game: round is not decided")
)

// InvalidStateError reports a state transition that is not in the allow-list
// for the current state. It carries both states for diagnostics.
type InvalidStateError struct {
	From State
	To   State
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("game: invalid transition from %s to %s", e.From, e.To)
}
