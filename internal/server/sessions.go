package server

import (
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"
)

// Sessions maps login tokens to usernames. Tokens expire after the idle TTL;
// the clock is injectable so tests can advance time.
type Sessions struct {
	mu       sync.Mutex
	clock    quartz.Clock
	ttl      time.Duration
	sessions map[string]*session
}

type session struct {
	username string
	lastSeen time.Time
}

// NewSessions creates an empty session table.
func NewSessions(clock quartz.Clock, ttl time.Duration) *Sessions {
	return &Sessions{
		clock:    clock,
		ttl:      ttl,
		sessions: make(map[string]*session),
	}
}

// Login mints a fresh token for username.
func (s *Sessions) Login(username string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	token := uuid.NewString()
	s.sessions[token] = &session{username: username, lastSeen: s.clock.Now()}
	return token
}

// Lookup resolves a token to its username, refreshing the idle timer. An
// expired token is removed and reported as unknown.
func (s *Sessions) Lookup(token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return "", false
	}
	now := s.clock.Now()
	if now.Sub(sess.lastSeen) > s.ttl {
		delete(s.sessions, token)
		return "", false
	}
	sess.lastSeen = now
	return sess.username, true
}

// Logout invalidates a token and reports whether it existed.
func (s *Sessions) Logout(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sessions[token]
	delete(s.sessions, token)
	return ok
}

// Sweep removes expired sessions and returns how many were dropped.
func (s *Sessions) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	dropped := 0
	for token, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > s.ttl {
			delete(s.sessions, token)
			dropped++
		}
	}
	return dropped
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
