package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/fermigames/fermi/internal/game"
	"github.com/fermigames/fermi/internal/gameid"
	"github.com/fermigames/fermi/internal/store"
)

const sessionCookie = "fermi_session"

type response struct {
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	GameID  string    `json:"game_id,omitempty"`
	Game    *GameView `json:"game,omitempty"`
}

type loginRequest struct {
	Username string `json:"username"`
}

type gameRequest struct {
	GameID string `json:"game_id"`
}

type submitRequest struct {
	GameID    string `json:"game_id"`
	LogAnswer int    `json:"log_answer"`
	LogError  int    `json:"log_error"`
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) ok(w http.ResponseWriter, message string) {
	writeJSON(w, response{Success: true, Message: message})
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	writeJSON(w, response{Success: false, Message: userMessage(err)})
}

// userMessage maps errors to the payload text shown to players.
func userMessage(err error) string {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return "Game ID doesn't exist!"
	case errors.Is(err, gameid.ErrInvalidID):
		return "Game ID should be 5 letters!"
	case errors.Is(err, game.ErrInvalidUsername):
		return "Username must be non-empty and alphabetic!"
	case errors.Is(err, game.ErrCapacity):
		return "Can't join since the game is full!"
	case errors.Is(err, game.ErrNotSeated):
		return "You are not part of this game!"
	case errors.Is(err, game.ErrInsufficientPlayers):
		return "Game must have two players to play!"
	case errors.Is(err, game.ErrMissingPrediction):
		return "The estimate hasn't been submitted yet!"
	case errors.Is(err, game.ErrNoWinner):
		return "The round hasn't been decided yet!"
	default:
		return err.Error()
	}
}

var errNotLoggedIn = errors.New("server: user not logged in")

// username resolves the acting player from the session cookie.
func (s *Server) username(r *http.Request) (string, error) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return "", errNotLoggedIn
	}
	username, ok := s.sessions.Lookup(cookie.Value)
	if !ok {
		return "", errNotLoggedIn
	}
	return username, nil
}

func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, err)
		return
	}
	if err := game.ValidateUsername(req.Username); err != nil {
		s.fail(w, err)
		return
	}
	if _, err := s.players.GetOrCreate(req.Username); err != nil {
		s.fail(w, err)
		return
	}

	token := s.sessions.Login(req.Username)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
	})
	s.logger.Info("Player logged in", "username", req.Username)
	s.ok(w, "Successfully logged in as "+req.Username)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil || !s.sessions.Logout(cookie.Value) {
		s.fail(w, errNotLoggedIn)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Path: "/", MaxAge: -1})
	s.ok(w, "Successfully logged out")
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	username, err := s.username(r)
	if err != nil {
		s.fail(w, err)
		return
	}

	g := game.New(s.ids.Generate(), s.provider.Generate())
	g, err = g.Join(username)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.games.Put(g)

	s.logger.Info("Game created", "game", g.ID(), "username", username)
	writeJSON(w, response{
		Success: true,
		Message: "Successfully created game " + g.ID(),
		GameID:  g.ID(),
	})
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	username, err := s.username(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	var req gameRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, err)
		return
	}
	if err := gameid.Validate(req.GameID); err != nil {
		s.fail(w, err)
		return
	}

	updated, err := s.games.Update(req.GameID, func(g game.Game) (game.Game, error) {
		return g.Join(username)
	})
	if err != nil {
		s.fail(w, err)
		return
	}

	s.logger.Info("Player joined", "game", req.GameID, "username", username)
	s.hub.Broadcast(req.GameID, NewGameView(updated, s.players))
	s.ok(w, "Successfully joined game "+req.GameID)
}

func (s *Server) handleLeave(w http.ResponseWriter, r *http.Request) {
	s.act(w, r, "left", func(g game.Game, username string) (game.Game, error) {
		return g.Leave(username)
	})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	username, err := s.username(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	var req submitRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, err)
		return
	}
	prediction, err := game.NewPrediction(req.LogAnswer, req.LogError)
	if err != nil {
		s.fail(w, err)
		return
	}

	updated, err := s.games.Update(req.GameID, func(g game.Game) (game.Game, error) {
		isEstimator, err := g.IsEstimator(username)
		if err != nil {
			return game.Game{}, err
		}
		if !isEstimator {
			return game.Game{}, fmt.Errorf("%w: only the estimator may submit", game.ErrIllegalAction)
		}
		return g.SetPrediction(prediction)
	})
	if err != nil {
		s.fail(w, err)
		return
	}

	s.logger.Info("Estimate submitted", "game", req.GameID, "username", username,
		"logAnswer", req.LogAnswer, "logError", req.LogError)
	s.hub.Broadcast(req.GameID, NewGameView(updated, s.players))
	s.ok(w, "Successfully submitted estimate")
}

func (s *Server) handleRaise(w http.ResponseWriter, r *http.Request) {
	s.act(w, r, "raised", func(g game.Game, username string) (game.Game, error) {
		return g.RaiseAnte(username)
	})
}

func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	s.act(w, r, "called", func(g game.Game, username string) (game.Game, error) {
		return g.CallAnte(username)
	})
}

func (s *Server) handleFold(w http.ResponseWriter, r *http.Request) {
	s.act(w, r, "folded", func(g game.Game, username string) (game.Game, error) {
		return g.Fold(username)
	})
}

func (s *Server) handlePlayAgain(w http.ResponseWriter, r *http.Request) {
	s.act(w, r, "opted into another round", func(g game.Game, username string) (game.Game, error) {
		return g.PlayAgain(username, s.provider.Generate())
	})
}

func (s *Server) handleEnd(w http.ResponseWriter, r *http.Request) {
	s.act(w, r, "ended the game", func(g game.Game, username string) (game.Game, error) {
		if !g.Contains(username) {
			return game.Game{}, game.ErrNotSeated
		}
		return g.End()
	})
}

// act runs one player action as an atomic read-modify-write on the game,
// settles balances if the action decided the round, and broadcasts the new
// snapshot.
func (s *Server) act(w http.ResponseWriter, r *http.Request, verb string, fn func(game.Game, string) (game.Game, error)) {
	username, err := s.username(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	var req gameRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, err)
		return
	}

	var decided bool
	updated, err := s.games.Update(req.GameID, func(g game.Game) (game.Game, error) {
		next, err := fn(g, username)
		if err != nil {
			return game.Game{}, err
		}
		decided = !g.HasWinner() && next.HasWinner()
		return next, nil
	})
	if err != nil {
		s.fail(w, err)
		return
	}

	if decided {
		s.settle(updated)
	}
	s.logger.Info("Player "+verb, "game", req.GameID, "username", username,
		"state", updated.State().String())
	s.hub.Broadcast(req.GameID, NewGameView(updated, s.players))
	s.ok(w, "Successfully "+verb)
}

// settle applies the decided round's payouts to both player records.
func (s *Server) settle(g game.Game) {
	for _, username := range g.Usernames() {
		payout, err := g.Payout(username)
		if err != nil {
			s.logger.Error("Failed to compute payout", "game", g.ID(), "username", username, "err", err)
			continue
		}
		if _, err := s.players.Update(username, func(p game.Player) (game.Player, error) {
			return p.ApplyPayout(payout), nil
		}); err != nil {
			s.logger.Error("Failed to apply payout", "game", g.ID(), "username", username, "err", err)
		}
	}
}

func (s *Server) handleGameState(w http.ResponseWriter, r *http.Request) {
	if _, err := s.username(r); err != nil {
		s.fail(w, err)
		return
	}
	id := r.PathValue("id")
	g, ok := s.games.Get(id)
	if !ok {
		s.fail(w, store.ErrNotFound)
		return
	}

	view := NewGameView(g, s.players)
	writeJSON(w, response{Success: true, Game: &view})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if _, err := s.username(r); err != nil {
		http.Error(w, userMessage(err), http.StatusUnauthorized)
		return
	}
	gameID := r.URL.Query().Get("game_id")
	g, ok := s.games.Get(gameID)
	if !ok {
		http.Error(w, userMessage(store.ErrNotFound), http.StatusNotFound)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "err", err)
		return
	}

	// Seed the new subscriber with the current snapshot, then stream.
	if err := conn.WriteJSON(NewGameView(g, s.players)); err != nil {
		_ = conn.Close()
		return
	}
	s.hub.Subscribe(gameID, conn)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}
