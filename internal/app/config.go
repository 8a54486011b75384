package app

import (
	"errors"
	"fmt"
	"time"
)

// Mode selects what Run does with the loaded definitions.
type Mode string

const (
	// ModeCheck loads every animation and reports frame counts.
	ModeCheck Mode = "check"
	// ModeServe runs the socket.io viewer.
	ModeServe Mode = "serve"
	// ModeTUI shows the animations in the terminal.
	ModeTUI Mode = "tui"
	// ModeRemote drives a viewer started elsewhere.
	ModeRemote Mode = "remote"
)

// Assignment is a parameter value given on the command line.
type Assignment struct {
	Parameter string
	Value     float64
}

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	DefinitionPaths []string // .hcl, .yaml and .yml files or directories
	Mode            Mode

	// Serve.
	Listen    string
	PublicURL string
	QR        bool

	// Remote.
	URL       string
	Animation string
	Sets      []Assignment
	Load      bool
	Output    string

	WorkerCount    int
	ThumbnailWidth int
	HTTPTimeout    time.Duration
	HTTPRetries    int

	LogFormat       string
	LogLevel        string
	LogFile         string
	HealthcheckPort int
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.Mode == "" {
		cfg.Mode = ModeCheck
	}
	switch cfg.Mode {
	case ModeCheck, ModeServe, ModeTUI:
		if len(cfg.DefinitionPaths) == 0 {
			return nil, errors.New("DefinitionPaths is a required configuration field and cannot be empty")
		}
	case ModeRemote:
		if cfg.URL == "" {
			return nil, errors.New("URL is required in remote mode")
		}
		if cfg.Animation == "" && (len(cfg.Sets) > 0 || cfg.Load || cfg.Output != "") {
			return nil, errors.New("Animation is required to load, set or save frames")
		}
	default:
		return nil, fmt.Errorf("unknown mode %q: must be 'check', 'serve', 'tui' or 'remote'", cfg.Mode)
	}

	if cfg.Mode == ModeServe && cfg.Listen == "" {
		return nil, errors.New("Listen is required in serve mode")
	}
	if cfg.WorkerCount < 1 {
		return nil, fmt.Errorf("WorkerCount must be at least 1, got %d", cfg.WorkerCount)
	}
	if cfg.HTTPRetries < 0 {
		return nil, fmt.Errorf("HTTPRetries cannot be negative, got %d", cfg.HTTPRetries)
	}

	return &cfg, nil
}
