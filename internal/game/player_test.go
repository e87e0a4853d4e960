package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlayer(t *testing.T) {
	p, err := NewPlayer("alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Username)
	assert.Equal(t, StartingBalance, p.Balance)
}

func TestNewPlayerRejectsInvalidUsername(t *testing.T) {
	_, err := NewPlayer("not valid")
	assert.ErrorIs(t, err, ErrInvalidUsername)
}

func TestApplyPayout(t *testing.T) {
	p, err := NewPlayer("alice")
	require.NoError(t, err)

	assert.Equal(t, StartingBalance+5, p.ApplyPayout(5).Balance)
	assert.Equal(t, StartingBalance-5, p.ApplyPayout(-5).Balance)
}

func TestApplyPayoutClampsAtZero(t *testing.T) {
	p, err := NewPlayer("alice")
	require.NoError(t, err)
	assert.Zero(t, p.ApplyPayout(-StartingBalance-10).Balance)
}

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("alice"))
	assert.NoError(t, ValidateUsername("Bob"))

	for _, username := range []string{"", " ", "al1ce", "a_b", "a-b", "a.b"} {
		assert.ErrorIs(t, ValidateUsername(username), ErrInvalidUsername, "username %q", username)
	}
}
