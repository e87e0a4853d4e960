// Package problems supplies trivia problems from the bundled corpus. Each
// round draws one problem uniformly at random.
package problems

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	rand "math/rand/v2"
	"strconv"
	"strings"
	"sync"

	"github.com/fermigames/fermi/internal/game"
)

//go:embed corpus.txt
var corpus string

// ErrEmptyCorpus indicates a corpus with no usable problems.
var ErrEmptyCorpus = errors.New("problems: corpus is empty")

// Provider draws random problems from a parsed corpus. Safe for concurrent
// use.
type Provider struct {
	mu       sync.Mutex
	rng      *rand.Rand
	problems []game.Problem
}

// New builds a provider over the embedded corpus. A nil rng uses the shared
// math/rand source; tests inject a seeded one for determinism.
func New(rng *rand.Rand) (*Provider, error) {
	return NewFromReader(strings.NewReader(corpus), rng)
}

// NewFromReader builds a provider from an external corpus.
func NewFromReader(r io.Reader, rng *rand.Rand) (*Provider, error) {
	parsed, err := Parse(r)
	if err != nil {
		return nil, err
	}
	if len(parsed) == 0 {
		return nil, ErrEmptyCorpus
	}
	return &Provider{rng: rng, problems: parsed}, nil
}

// Generate returns a random problem from the corpus.
func (p *Provider) Generate() game.Problem {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.rng != nil {
		return p.problems[p.rng.IntN(len(p.problems))]
	}
	return p.problems[rand.IntN(len(p.problems))]
}

// Len returns the number of problems in the corpus.
func (p *Provider) Len() int {
	return len(p.problems)
}

// All returns the parsed corpus in file order.
func (p *Provider) All() []game.Problem {
	out := make([]game.Problem, len(p.problems))
	copy(out, p.problems)
	return out
}

// Parse reads a corpus: one problem per line as
// "question|log_answer|source". Blank lines and #-comments are skipped.
func Parse(r io.Reader) ([]game.Problem, error) {
	var problems []game.Problem
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Split(text, "|")
		if len(fields) != 3 {
			return nil, fmt.Errorf("problems: line %d: expected 3 fields, got %d", line, len(fields))
		}
		question := strings.TrimSpace(fields[0])
		if question == "" {
			return nil, fmt.Errorf("problems: line %d: empty question", line)
		}
		logAnswer, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil {
			return nil, fmt.Errorf("problems: line %d: bad log answer: %w", line, err)
		}

		problems = append(problems, game.Problem{
			Question:  question,
			LogAnswer: logAnswer,
			Source:    strings.TrimSpace(fields[2]),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("problems: read corpus: %w", err)
	}
	return problems, nil
}
