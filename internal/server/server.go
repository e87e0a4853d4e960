// Package server exposes the estimation game over an HTTP JSON API with a
// WebSocket channel for state push. All game logic lives in internal/game;
// handlers load a game from the store, apply one transition, store the
// result and report the outcome.
package server

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/fermigames/fermi/internal/game"
	"github.com/fermigames/fermi/internal/gameid"
	"github.com/fermigames/fermi/internal/store"
)

// ProblemProvider supplies a fresh problem per round.
type ProblemProvider interface {
	Generate() game.Problem
}

// Server wires the game core to its HTTP surface.
type Server struct {
	cfg      *Config
	logger   *log.Logger
	games    *store.Games
	players  *store.Players
	sessions *Sessions
	provider ProblemProvider
	ids      *gameid.Generator
	hub      *Hub
	upgrader websocket.Upgrader
	clock    quartz.Clock
}

// New creates a server. The clock is injectable for tests; production
// callers pass quartz.NewReal().
func New(cfg *Config, provider ProblemProvider, logger *log.Logger, clock quartz.Clock) *Server {
	return &Server{
		cfg:      cfg,
		logger:   logger.WithPrefix("server"),
		games:    store.NewGames(),
		players:  store.NewPlayers(),
		sessions: NewSessions(clock, cfg.SessionTTL()),
		provider: provider,
		ids:      gameid.NewGenerator(nil),
		hub:      NewHub(logger),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Same-origin enforcement happens at the proxy layer.
				return true
			},
		},
		clock: clock,
	}
}

// Handler returns the server's route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("POST /api/logout", s.handleLogout)
	mux.HandleFunc("POST /api/create", s.handleCreate)
	mux.HandleFunc("POST /api/join", s.handleJoin)
	mux.HandleFunc("POST /api/leave", s.handleLeave)
	mux.HandleFunc("POST /api/submit", s.handleSubmit)
	mux.HandleFunc("POST /api/raise", s.handleRaise)
	mux.HandleFunc("POST /api/call", s.handleCall)
	mux.HandleFunc("POST /api/fold", s.handleFold)
	mux.HandleFunc("POST /api/play-again", s.handlePlayAgain)
	mux.HandleFunc("POST /api/end", s.handleEnd)
	mux.HandleFunc("GET /api/game/{id}", s.handleGameState)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.cfg.Addr(),
		Handler: s.Handler(),
	}

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		s.logger.Info("Starting server", "addr", s.cfg.Addr())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	eg.Go(func() error {
		<-ctx.Done()
		s.logger.Info("Shutting down")
		return httpServer.Shutdown(context.Background())
	})

	eg.Go(func() error {
		ticker := s.clock.NewTicker(s.cfg.SweepInterval())
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if dropped := s.sessions.Sweep(); dropped > 0 {
					s.logger.Debug("Swept expired sessions", "dropped", dropped)
				}
			}
		}
	})

	return eg.Wait()
}
