// Package gameid generates and validates the short invite codes players
// share to join a game.
package gameid

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Length is the number of letters in a game ID.
const Length = 5

// ErrInvalidID indicates a malformed game ID.
var ErrInvalidID = errors.New("gameid: invalid game id")

// RandSource interface for dependency injection of randomness.
type RandSource interface {
	IntN(n int) int
}

// Generator creates game IDs with configurable randomness.
type Generator struct {
	randSource RandSource
}

// NewGenerator creates a generator. A nil RandSource falls back to the
// shared math/rand source.
func NewGenerator(randSource RandSource) *Generator {
	if randSource == nil {
		randSource = globalSource{}
	}
	return &Generator{randSource: randSource}
}

// Generate creates a game ID using the package's default randomness.
func Generate() string {
	return NewGenerator(nil).Generate()
}

// Generate draws Length distinct letters from the alphabet. IDs are not
// collision-checked against existing games; the caller treats collisions as
// acceptable.
func (g *Generator) Generate() string {
	letters := []byte(alphabet)
	id := make([]byte, Length)
	for i := 0; i < Length; i++ {
		j := i + g.randSource.IntN(len(letters)-i)
		letters[i], letters[j] = letters[j], letters[i]
		id[i] = letters[i]
	}
	return string(id)
}

// Validate checks that an ID is exactly Length uppercase letters.
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("%w: must be exactly %d letters, got %d", ErrInvalidID, Length, len(id))
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 'A' || id[i] > 'Z' {
			return fmt.Errorf("%w: character %q at position %d", ErrInvalidID, id[i], i)
		}
	}
	return nil
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }
