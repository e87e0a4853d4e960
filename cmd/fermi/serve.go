package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/fermigames/fermi/internal/problems"
	"github.com/fermigames/fermi/internal/randutil"
	"github.com/fermigames/fermi/internal/server"
)

type ServeCmd struct {
	Config   string `short:"c" default:"fermi.hcl" help:"Path to HCL configuration file"`
	Addr     string `short:"a" help:"Listen address (overrides config)"`
	Port     int    `short:"p" help:"Listen port (overrides config)"`
	LogLevel string `short:"l" help:"Log level (overrides config)"`
	Seed     *int64 `help:"Deterministic RNG seed for problem selection (optional)"`
}

func (c *ServeCmd) Run() error {
	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Command line overrides
	if c.Addr != "" {
		cfg.Server.Address = c.Addr
	}
	if c.Port != 0 {
		cfg.Server.Port = c.Port
	}
	if c.LogLevel != "" {
		cfg.Server.LogLevel = c.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := newLogger(cfg.Server.LogLevel)

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
		logger.Info("using deterministic seed", "seed", seed)
	}
	provider, err := problems.New(randutil.New(seed))
	if err != nil {
		return fmt.Errorf("loading problem corpus: %w", err)
	}

	logger.Info("starting fermi server",
		"addr", cfg.Addr(),
		"problems", provider.Len(),
		"session_ttl", cfg.SessionTTL())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, provider, logger, quartz.NewReal())
	return srv.Run(ctx)
}

func newLogger(level string) *log.Logger {
	logger := log.New(os.Stderr)
	switch level {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "info":
		logger.SetLevel(log.InfoLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}
	return logger
}
