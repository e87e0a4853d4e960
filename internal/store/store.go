// Package store holds the process-wide registries of games and players.
// Games are immutable values, so the only point of contention is the
// "current value for this id" slot: Update serializes read-modify-write
// cycles so concurrent transitions on the same game cannot lose updates.
package store

import (
	"errors"
	"sync"

	"github.com/fermigames/fermi/internal/game"
)

// ErrNotFound indicates the id has no stored value.
var ErrNotFound = errors.New("store: not found")

// Games is an in-memory registry of games keyed by id.
type Games struct {
	mu    sync.RWMutex
	games map[string]game.Game
}

// NewGames constructs an empty game registry.
func NewGames() *Games {
	return &Games{games: make(map[string]game.Game)}
}

// Put stores a game under its id.
func (s *Games) Put(g game.Game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[g.ID()] = g
}

// Get returns the current value for id.
func (s *Games) Get(id string) (game.Game, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.games[id]
	return g, ok
}

// Delete removes a game and reports whether it existed.
func (s *Games) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.games[id]
	delete(s.games, id)
	return ok
}

// Update applies fn to the current value for id and stores the result. The
// lock is held across fn, so transitions on a game are serialized; if fn
// fails the stored value is left unchanged and the error is returned.
func (s *Games) Update(id string, fn func(game.Game) (game.Game, error)) (game.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.games[id]
	if !ok {
		return game.Game{}, ErrNotFound
	}
	next, err := fn(current)
	if err != nil {
		return game.Game{}, err
	}
	s.games[id] = next
	return next, nil
}

// Len returns the number of stored games.
func (s *Games) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}

// Players is an in-memory registry of player records keyed by username.
type Players struct {
	mu      sync.RWMutex
	players map[string]game.Player
}

// NewPlayers constructs an empty player registry.
func NewPlayers() *Players {
	return &Players{players: make(map[string]game.Player)}
}

// Get returns the player record for username.
func (s *Players) Get(username string) (game.Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[username]
	return p, ok
}

// GetOrCreate returns the existing record for username, creating one with
// the starting balance on first sight.
func (s *Players) GetOrCreate(username string) (game.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.players[username]; ok {
		return p, nil
	}
	p, err := game.NewPlayer(username)
	if err != nil {
		return game.Player{}, err
	}
	s.players[username] = p
	return p, nil
}

// Update applies fn to username's record and stores the result, with the
// same read-modify-write discipline as Games.Update.
func (s *Players) Update(username string, fn func(game.Player) (game.Player, error)) (game.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.players[username]
	if !ok {
		return game.Player{}, ErrNotFound
	}
	next, err := fn(current)
	if err != nil {
		return game.Player{}, err
	}
	s.players[username] = next
	return next, nil
}
