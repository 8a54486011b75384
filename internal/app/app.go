package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/vk/sweepview/internal/config"
	"github.com/vk/sweepview/internal/ctxlog"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx     context.Context
	outW    io.Writer
	inR     io.Reader
	logger  *slog.Logger
	logFile *os.File
	config  *Config
	model   *config.Model
	baseDir string

	httpServer *http.Server
}

// NewApp is the constructor for the main application. It loads the animation
// definitions with loaders, or with every built-in format when none are
// given. Remote mode needs no definitions.
func NewApp(outW io.Writer, cfg *Config, loaders ...config.Loader) *App {
	a := &App{
		outW:   outW,
		inR:    os.Stdin,
		config: cfg,
	}

	logW := outW
	switch {
	case cfg.LogFile != "":
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			panic(fmt.Errorf("failed to open log file: %w", err))
		}
		a.logFile = f
		logW = f
	case cfg.Mode == ModeTUI:
		// The terminal belongs to the view.
		logW = io.Discard
	}
	a.logger = newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	a.ctx = ctxlog.WithLogger(context.Background(), a.logger)
	a.logger.Debug("Logger configured successfully.")

	if cfg.Mode == ModeRemote {
		return a
	}

	if len(loaders) == 0 {
		loaders = coreLoaders
	}
	model, err := loadDefinitions(a.ctx, cfg.DefinitionPaths, loaders)
	if err != nil {
		// A failure to load definitions is a fatal startup error.
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	dir, err := baseDir(cfg.DefinitionPaths)
	if err != nil {
		panic(err)
	}
	a.model = model
	a.baseDir = dir
	return a
}

// Model returns the loaded definitions. This is primarily for testing.
func (a *App) Model() *config.Model {
	return a.model
}
