package server

import (
	"github.com/fermigames/fermi/internal/game"
	"github.com/fermigames/fermi/internal/store"
)

// PlayerView is one seated player's slice of a game snapshot.
type PlayerView struct {
	Username     string `json:"username"`
	Balance      int    `json:"balance"`
	Ante         int    `json:"ante"`
	Folded       bool   `json:"folded"`
	IsEstimator  bool   `json:"is_estimator"`
	IsTurn       bool   `json:"is_turn"`
	WantsRematch bool   `json:"wants_rematch"`
	Payout       *int   `json:"payout,omitempty"`
}

// PredictionView mirrors the submitted prediction.
type PredictionView struct {
	LogAnswer int `json:"log_answer"`
	LogError  int `json:"log_error"`
}

// GameView is the client-facing snapshot of a game, pushed over the
// WebSocket on every successful transition. The problem's answer is only
// revealed once the round is decided.
type GameView struct {
	ID         string          `json:"id"`
	State      string          `json:"state"`
	Question   string          `json:"question"`
	Players    []PlayerView    `json:"players"`
	Prediction *PredictionView `json:"prediction,omitempty"`
	HasWinner  bool            `json:"has_winner"`
	Winner     string          `json:"winner,omitempty"`
	LogAnswer  *int            `json:"log_answer,omitempty"`
	Source     string          `json:"source,omitempty"`
}

// NewGameView builds a snapshot of g, joining in balances from the player
// registry.
func NewGameView(g game.Game, players *store.Players) GameView {
	view := GameView{
		ID:       g.ID(),
		State:    g.State().String(),
		Question: g.Problem().Question,
	}

	if p, ok := g.Prediction(); ok {
		view.Prediction = &PredictionView{LogAnswer: p.LogAnswer, LogError: p.LogError}
	}

	decided := g.HasWinner()
	view.HasWinner = decided
	if decided {
		answer := g.Problem().LogAnswer
		view.LogAnswer = &answer
		view.Source = g.Problem().Source
	}

	for _, username := range g.Usernames() {
		pv := PlayerView{Username: username}
		if record, ok := players.Get(username); ok {
			pv.Balance = record.Balance
		}
		// Queries on a seated username cannot fail.
		pv.Ante, _ = g.Ante(username)
		pv.Folded, _ = g.HasFolded(username)
		pv.IsTurn = g.CurrentPlayer() == username
		pv.IsEstimator = g.Estimator() == username
		pv.WantsRematch, _ = g.HasPlayAgain(username)

		if decided {
			if won, err := g.IsWinner(username); err == nil && won {
				view.Winner = username
			}
			if payout, err := g.Payout(username); err == nil {
				pv.Payout = &payout
			}
		}
		view.Players = append(view.Players, pv)
	}
	return view
}
