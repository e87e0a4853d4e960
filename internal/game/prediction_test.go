package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPredictionValidatesRadius(t *testing.T) {
	for _, logError := range []int{0, 1, 2, 3} {
		p, err := NewPrediction(9, logError)
		require.NoError(t, err)
		assert.Equal(t, logError, p.LogError)
	}

	for _, logError := range []int{-1, 4, 100} {
		_, err := NewPrediction(9, logError)
		assert.ErrorIs(t, err, ErrInvalidPrediction, "log error %d", logError)
	}
}

func TestPredictionCovers(t *testing.T) {
	p, err := NewPrediction(9, 2)
	require.NoError(t, err)

	assert.True(t, p.Covers(7))
	assert.True(t, p.Covers(9))
	assert.True(t, p.Covers(11))
	assert.False(t, p.Covers(6))
	assert.False(t, p.Covers(12))
}

func TestPredictionMultiplier(t *testing.T) {
	expected := map[int]int{0: 8, 1: 5, 2: 2, 3: 1}
	for logError, multiplier := range expected {
		p, err := NewPrediction(0, logError)
		require.NoError(t, err)
		assert.Equal(t, multiplier, p.Multiplier())
	}
}
