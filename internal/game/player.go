package game

import (
	"fmt"
	"unicode"
)

// StartingBalance is the chip balance of a freshly created player.
const StartingBalance = 10

// Player is a user's identity plus chip balance. Balances live outside the
// Game aggregate; callers apply payouts to player records after a round is
// decided.
type Player struct {
	Username string
	Balance  int
}

// NewPlayer creates a player with the starting balance.
func NewPlayer(username string) (Player, error) {
	if err := ValidateUsername(username); err != nil {
		return Player{}, err
	}
	return Player{Username: username, Balance: StartingBalance}, nil
}

// ApplyPayout returns the player with the payout applied. Balances never go
// below zero.
func (p Player) ApplyPayout(amount int) Player {
	p.Balance += amount
	if p.Balance < 0 {
		p.Balance = 0
	}
	return p
}

// ValidateUsername checks that a username is non-empty and alphabetic.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("%w: empty", ErrInvalidUsername)
	}
	for _, r := range username {
		if !unicode.IsLetter(r) {
			return fmt.Errorf("%w: %q contains non-letter %q", ErrInvalidUsername, username, r)
		}
	}
	return nil
}
