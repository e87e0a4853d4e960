package main

import (
	"fmt"
	"os"

	"github.com/fermigames/fermi/internal/problems"
)

type ProblemsCmd struct {
	File string `short:"f" help:"Parse an external corpus file instead of the built-in one"`
}

func (c *ProblemsCmd) Run() error {
	provider, err := c.load()
	if err != nil {
		return err
	}

	for _, p := range provider.All() {
		fmt.Printf("%-90s 1e%-3d %s\n", p.Question, p.LogAnswer, p.Source)
	}
	fmt.Printf("\n%d problems\n", provider.Len())
	return nil
}

func (c *ProblemsCmd) load() (*problems.Provider, error) {
	if c.File == "" {
		return problems.New(nil)
	}
	f, err := os.Open(c.File)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return problems.NewFromReader(f, nil)
}
