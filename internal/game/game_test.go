package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	alice   = "alice"
	bob     = "bob"
	charlie = "charlie"
)

var testProblem = Problem{
	Question:  "How many miles does an average commercial airplane fly in its lifetime?",
	LogAnswer: 9,
	Source:    "https://example.com/airplanes",
}

func emptyGame() Game {
	return New("ABCDE", testProblem)
}

// twoPlayerGame seats alice then bob; alice is estimator and holds the turn.
func twoPlayerGame(t *testing.T) Game {
	t.Helper()
	g, err := emptyGame().Join(alice)
	require.NoError(t, err)
	g, err = g.Join(bob)
	require.NoError(t, err)
	return g
}

// biddingGame is a two-player game with a correct prediction submitted:
// alice's ante is 1 and bob holds the turn.
func biddingGame(t *testing.T) Game {
	t.Helper()
	p, err := NewPrediction(testProblem.LogAnswer, 2)
	require.NoError(t, err)
	g, err := twoPlayerGame(t).SetPrediction(p)
	require.NoError(t, err)
	return g
}

func TestJoinSeatsPlayer(t *testing.T) {
	g, err := emptyGame().Join(alice)
	require.NoError(t, err)

	assert.True(t, g.Contains(alice))
	assert.Equal(t, 1, g.NumPlayers())
	assert.Equal(t, alice, g.Estimator())
	assert.Equal(t, alice, g.CurrentPlayer())
}

func TestJoinRejectsThirdPlayer(t *testing.T) {
	_, err := twoPlayerGame(t).Join(charlie)
	assert.ErrorIs(t, err, ErrCapacity)
}

func TestJoinRejectsInvalidUsernames(t *testing.T) {
	for _, username := range []string{"", " ", "al1ce", "bob!"} {
		_, err := emptyGame().Join(username)
		assert.ErrorIs(t, err, ErrInvalidUsername, "username %q", username)
	}
}

func TestJoinRejectsDuplicateUsername(t *testing.T) {
	g, err := emptyGame().Join(alice)
	require.NoError(t, err)

	_, err = g.Join(alice)
	assert.ErrorIs(t, err, ErrInvalidUsername)
}

func TestJoinDoesNotMutateReceiver(t *testing.T) {
	g := emptyGame()
	_, err := g.Join(alice)
	require.NoError(t, err)

	assert.Equal(t, 0, g.NumPlayers())
	assert.False(t, g.Contains(alice))
}

func TestNumPlayersAndFullness(t *testing.T) {
	g := emptyGame()
	assert.False(t, g.IsPlayerWaiting())

	g, err := g.Join(alice)
	require.NoError(t, err)
	assert.Equal(t, 1, g.NumPlayers())
	assert.True(t, g.IsPlayerWaiting())
	assert.False(t, g.IsFull())

	g, err = g.Join(bob)
	require.NoError(t, err)
	assert.True(t, g.IsFull())
	assert.False(t, g.IsPlayerWaiting())
}

func TestLeaveUnseatsPlayer(t *testing.T) {
	g, err := twoPlayerGame(t).Leave(alice)
	require.NoError(t, err)

	assert.False(t, g.Contains(alice))
	assert.Equal(t, 1, g.NumPlayers())
	assert.Equal(t, WaitingForPlayers, g.State())
	// Roles pass to the remaining player.
	assert.Equal(t, bob, g.Estimator())
	assert.Equal(t, bob, g.CurrentPlayer())
}

func TestLeaveRequiresSeatedPlayer(t *testing.T) {
	_, err := emptyGame().Leave(alice)
	assert.ErrorIs(t, err, ErrNotSeated)
}

func TestLeaveForbiddenOnceRoundStarted(t *testing.T) {
	_, err := biddingGame(t).Leave(bob)
	assert.ErrorIs(t, err, ErrIllegalAction)
}

func TestSetEstimator(t *testing.T) {
	g, err := twoPlayerGame(t).SetEstimator(bob)
	require.NoError(t, err)
	assert.Equal(t, bob, g.Estimator())

	_, err = emptyGame().SetEstimator(alice)
	assert.ErrorIs(t, err, ErrNotSeated)
}

func TestIsEstimator(t *testing.T) {
	g := twoPlayerGame(t)

	isEstimator, err := g.IsEstimator(alice)
	require.NoError(t, err)
	assert.True(t, isEstimator)

	isEstimator, err = g.IsEstimator(bob)
	require.NoError(t, err)
	assert.False(t, isEstimator)

	_, err = g.IsEstimator(charlie)
	assert.ErrorIs(t, err, ErrNotSeated)
}

func TestIsEstimatorRequiresTwoPlayers(t *testing.T) {
	g, err := emptyGame().Join(alice)
	require.NoError(t, err)

	_, err = g.IsEstimator(alice)
	assert.ErrorIs(t, err, ErrInsufficientPlayers)
}

func TestSetCurrentPlayer(t *testing.T) {
	g, err := twoPlayerGame(t).SetCurrentPlayer(bob)
	require.NoError(t, err)
	assert.Equal(t, bob, g.CurrentPlayer())

	_, err = emptyGame().SetCurrentPlayer(alice)
	assert.ErrorIs(t, err, ErrNotSeated)
}

func TestOpponent(t *testing.T) {
	g := twoPlayerGame(t)

	opponent, err := g.Opponent(alice)
	require.NoError(t, err)
	assert.Equal(t, bob, opponent)

	opponent, err = g.Opponent(bob)
	require.NoError(t, err)
	assert.Equal(t, alice, opponent)
}

func TestOpponentErrors(t *testing.T) {
	_, err := emptyGame().Opponent(alice)
	assert.ErrorIs(t, err, ErrNotSeated)

	g, err := emptyGame().Join(alice)
	require.NoError(t, err)
	_, err = g.Opponent(alice)
	assert.ErrorIs(t, err, ErrInsufficientPlayers)
}

func TestSwitchTurns(t *testing.T) {
	g := biddingGame(t)
	require.Equal(t, bob, g.CurrentPlayer())

	g, err := g.SwitchTurns()
	require.NoError(t, err)
	assert.Equal(t, alice, g.CurrentPlayer())
}

func TestSwitchTurnsWithoutCurrentPlayer(t *testing.T) {
	_, err := emptyGame().SwitchTurns()
	assert.ErrorIs(t, err, ErrIllegalAction)
}

func TestSetPredictionOpensBidding(t *testing.T) {
	g := twoPlayerGame(t)
	p, err := NewPrediction(9, 2)
	require.NoError(t, err)

	g, err = g.SetPrediction(p)
	require.NoError(t, err)

	got, ok := g.Prediction()
	require.True(t, ok)
	assert.Equal(t, p, got)
	assert.True(t, g.HasPrediction())

	ante, err := g.Ante(alice)
	require.NoError(t, err)
	assert.Equal(t, 1, ante)
	assert.Equal(t, bob, g.CurrentPlayer())
	assert.Equal(t, WaitingForRaiseCallOrFold, g.State())
}

func TestSetPredictionRejectedTwice(t *testing.T) {
	g := biddingGame(t)
	p, err := NewPrediction(5, 1)
	require.NoError(t, err)

	_, err = g.SetPrediction(p)
	assert.ErrorIs(t, err, ErrIllegalAction)
}

func TestSetPredictionRequiresEstimatorTurn(t *testing.T) {
	g, err := twoPlayerGame(t).SetCurrentPlayer(bob)
	require.NoError(t, err)

	p, err := NewPrediction(9, 2)
	require.NoError(t, err)
	_, err = g.SetPrediction(p)
	assert.ErrorIs(t, err, ErrIllegalAction)
}

func TestAntesAreZeroBeforePrediction(t *testing.T) {
	g := twoPlayerGame(t)

	for _, username := range []string{alice, bob} {
		ante, err := g.Ante(username)
		require.NoError(t, err)
		assert.Zero(t, ante)
	}
}

func TestAnteRequiresSeatedPlayer(t *testing.T) {
	_, err := emptyGame().Ante(alice)
	assert.ErrorIs(t, err, ErrNotSeated)
}

func TestSetAnte(t *testing.T) {
	g, err := biddingGame(t).SetAnte(bob, 100)
	require.NoError(t, err)

	ante, err := g.Ante(bob)
	require.NoError(t, err)
	assert.Equal(t, 100, ante)
}

func TestSetAnteGuards(t *testing.T) {
	t.Run("player not seated", func(t *testing.T) {
		_, err := emptyGame().SetAnte(alice, 100)
		assert.ErrorIs(t, err, ErrNotSeated)
	})

	t.Run("no prediction yet", func(t *testing.T) {
		_, err := twoPlayerGame(t).SetAnte(alice, 1)
		assert.ErrorIs(t, err, ErrIllegalAction)
	})

	t.Run("negative amount", func(t *testing.T) {
		_, err := biddingGame(t).SetAnte(bob, -10)
		assert.ErrorIs(t, err, ErrIllegalAction)
	})

	t.Run("below opponent", func(t *testing.T) {
		_, err := biddingGame(t).SetAnte(bob, 0)
		assert.ErrorIs(t, err, ErrIllegalAction)
	})

	t.Run("folded player is frozen", func(t *testing.T) {
		g, err := biddingGame(t).Fold(bob)
		require.NoError(t, err)
		_, err = g.SetAnte(bob, 5)
		assert.ErrorIs(t, err, ErrIllegalAction)
	})
}

func TestRaiseAnte(t *testing.T) {
	g := biddingGame(t)

	g, err := g.RaiseAnte(bob)
	require.NoError(t, err)

	bobAnte, err := g.Ante(bob)
	require.NoError(t, err)
	aliceAnte, err := g.Ante(alice)
	require.NoError(t, err)
	assert.Equal(t, 2, bobAnte)
	assert.Equal(t, 1, aliceAnte)
	assert.Equal(t, alice, g.CurrentPlayer())
}

func TestRaiseAnteGuards(t *testing.T) {
	t.Run("player not seated", func(t *testing.T) {
		_, err := twoPlayerGame(t).RaiseAnte(charlie)
		assert.ErrorIs(t, err, ErrNotSeated)
	})

	t.Run("one player", func(t *testing.T) {
		g, err := emptyGame().Join(alice)
		require.NoError(t, err)
		_, err = g.RaiseAnte(alice)
		assert.ErrorIs(t, err, ErrInsufficientPlayers)
	})

	t.Run("not ahead of opponent", func(t *testing.T) {
		// Hand the turn back to alice: her ante (1) is not below bob's (0),
		// so she may not re-raise herself.
		g, err := biddingGame(t).SwitchTurns()
		require.NoError(t, err)
		_, err = g.RaiseAnte(alice)
		assert.ErrorIs(t, err, ErrIllegalAction)
	})

	t.Run("out of turn", func(t *testing.T) {
		g, err := biddingGame(t).RaiseAnte(bob)
		require.NoError(t, err)
		_, err = g.RaiseAnte(bob)
		assert.ErrorIs(t, err, ErrIllegalAction)
	})
}

func TestCallAnteEqualizes(t *testing.T) {
	g, err := biddingGame(t).CallAnte(bob)
	require.NoError(t, err)

	aliceAnte, err := g.Ante(alice)
	require.NoError(t, err)
	bobAnte, err := g.Ante(bob)
	require.NoError(t, err)
	assert.Equal(t, 1, aliceAnte)
	assert.Equal(t, 1, bobAnte)
	assert.Equal(t, RoundEnded, g.State())
}

func TestHasCalledAnte(t *testing.T) {
	g := biddingGame(t)

	for _, username := range []string{alice, bob} {
		called, err := g.HasCalledAnte(username)
		require.NoError(t, err)
		assert.False(t, called)
	}

	g, err := g.CallAnte(bob)
	require.NoError(t, err)
	for _, username := range []string{alice, bob} {
		called, err := g.HasCalledAnte(username)
		require.NoError(t, err)
		assert.True(t, called)
	}
}

func TestHasCalledAnteRequiresSeatedPlayer(t *testing.T) {
	_, err := twoPlayerGame(t).HasCalledAnte(charlie)
	assert.ErrorIs(t, err, ErrNotSeated)
}

func TestFoldMarksPlayer(t *testing.T) {
	g, err := biddingGame(t).Fold(bob)
	require.NoError(t, err)

	folded, err := g.HasFolded(bob)
	require.NoError(t, err)
	assert.True(t, folded)

	folded, err = g.HasFolded(alice)
	require.NoError(t, err)
	assert.False(t, folded)
	assert.Equal(t, RoundEnded, g.State())
}

func TestFoldGuards(t *testing.T) {
	t.Run("player not seated", func(t *testing.T) {
		_, err := twoPlayerGame(t).Fold(charlie)
		assert.ErrorIs(t, err, ErrNotSeated)
	})

	t.Run("double fold", func(t *testing.T) {
		g, err := twoPlayerGame(t).Fold(alice)
		require.NoError(t, err)
		_, err = g.Fold(alice)
		assert.ErrorIs(t, err, ErrIllegalAction)
	})

	t.Run("out of turn after prediction", func(t *testing.T) {
		_, err := biddingGame(t).Fold(alice)
		assert.ErrorIs(t, err, ErrIllegalAction)
	})
}

func TestPreEstimateFoldEndsRound(t *testing.T) {
	// Before a prediction exists either player may bail out of the round.
	g, err := twoPlayerGame(t).Fold(alice)
	require.NoError(t, err)
	assert.Equal(t, RoundEnded, g.State())
}

func TestCallAfterOpponentFolded(t *testing.T) {
	g, err := biddingGame(t).Fold(bob)
	require.NoError(t, err)

	_, err = g.CallAnte(alice)
	assert.ErrorIs(t, err, ErrIllegalAction)
}

func TestHasFoldedRequiresSeatedPlayer(t *testing.T) {
	_, err := twoPlayerGame(t).HasFolded(charlie)
	assert.ErrorIs(t, err, ErrNotSeated)
}

func TestUsernamesSnapshotIsIndependent(t *testing.T) {
	g := twoPlayerGame(t)
	usernames := g.Usernames()
	usernames[0] = "mallory"

	assert.True(t, g.Contains(alice))
	assert.Equal(t, []string{alice, bob}, g.Usernames())
}

func TestAntesSnapshotIsIndependent(t *testing.T) {
	g := biddingGame(t)
	antes := g.Antes()
	antes[alice] = 999

	ante, err := g.Ante(alice)
	require.NoError(t, err)
	assert.Equal(t, 1, ante)
}
