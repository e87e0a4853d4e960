package problems

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fermigames/fermi/internal/game"
	"github.com/fermigames/fermi/internal/randutil"
)

func TestEmbeddedCorpusParses(t *testing.T) {
	p, err := New(randutil.New(1))
	require.NoError(t, err)
	assert.Greater(t, p.Len(), 10)

	for _, problem := range p.All() {
		assert.NotEmpty(t, problem.Question)
		assert.NotEmpty(t, problem.Source)
		assert.GreaterOrEqual(t, problem.LogAnswer, 0)
	}
}

func TestGenerateIsDeterministicPerSeed(t *testing.T) {
	p1, err := New(randutil.New(7))
	require.NoError(t, err)
	p2, err := New(randutil.New(7))
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		assert.Equal(t, p1.Generate(), p2.Generate())
	}
}

func TestGenerateCoversCorpus(t *testing.T) {
	p, err := New(randutil.New(3))
	require.NoError(t, err)

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		seen[p.Generate().Question] = true
	}
	assert.Len(t, seen, p.Len())
}

func TestParse(t *testing.T) {
	corpus := strings.Join([]string{
		"# a comment",
		"",
		"How many widgets?|6|https://example.com",
		"  How many sprockets?  | 2 | https://example.org  ",
	}, "\n")

	parsed, err := Parse(strings.NewReader(corpus))
	require.NoError(t, err)
	require.Len(t, parsed, 2)
	assert.Equal(t, game.Problem{
		Question:  "How many widgets?",
		LogAnswer: 6,
		Source:    "https://example.com",
	}, parsed[0])
	assert.Equal(t, 2, parsed[1].LogAnswer)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		corpus string
	}{
		{"missing field", "How many?|6"},
		{"extra field", "How many?|6|src|more"},
		{"bad log answer", "How many?|six|src"},
		{"empty question", "|6|src"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.corpus))
			assert.Error(t, err)
		})
	}
}

func TestEmptyCorpus(t *testing.T) {
	_, err := NewFromReader(strings.NewReader("# nothing here\n"), nil)
	assert.ErrorIs(t, err, ErrEmptyCorpus)
}
