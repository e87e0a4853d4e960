package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config represents the complete server configuration.
type Config struct {
	Server  ServerSettings  `hcl:"server,block"`
	Session SessionSettings `hcl:"session,block"`
}

// ServerSettings contains server-level configuration.
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// SessionSettings controls login session lifetime.
type SessionSettings struct {
	TTLMinutes   int `hcl:"ttl_minutes,optional"`
	SweepSeconds int `hcl:"sweep_seconds,optional"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Session: SessionSettings{
			TTLMinutes:   60,
			SweepSeconds: 60,
		},
	}
}

// LoadConfig loads configuration from an HCL file. A missing file yields the
// defaults.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values
	if config.Server.Address == "" {
		config.Server.Address = "localhost"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = "info"
	}
	if config.Session.TTLMinutes == 0 {
		config.Session.TTLMinutes = 60
	}
	if config.Session.SweepSeconds == 0 {
		config.Session.SweepSeconds = 60
	}

	return &config, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	switch c.Server.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Server.LogLevel)
	}
	if c.Session.TTLMinutes < 1 {
		return fmt.Errorf("session ttl must be positive, got %d", c.Session.TTLMinutes)
	}
	if c.Session.SweepSeconds < 1 {
		return fmt.Errorf("session sweep interval must be positive, got %d", c.Session.SweepSeconds)
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// SessionTTL returns the session idle timeout.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Session.TTLMinutes) * time.Minute
}

// SweepInterval returns how often expired sessions are collected.
func (c *Config) SweepInterval() time.Duration {
	return time.Duration(c.Session.SweepSeconds) * time.Second
}
