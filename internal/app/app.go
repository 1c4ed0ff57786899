package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/specialistvlad/cyclesim/internal/model"
	"github.com/specialistvlad/cyclesim/internal/registry"
)

// Loader reads program files into component definitions.
type Loader interface {
	Load(ctx context.Context, paths ...string) (*model.Definitions, error)
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	config   *Config
	loader   Loader
}

// NewApp is the constructor for the main application. Logs go to logW and
// the final state goes to outW unless the config names an output file.
// Without modules the standard primitive library is registered.
func NewApp(outW, logW io.Writer, cfg *Config, loader Loader, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	if len(modules) == 0 {
		modules = coreModules
	}
	reg := registry.New(modules...)
	logger.Debug("All primitive modules registered.", "count", len(modules), "primitives", len(reg.Names()))

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		config:   cfg,
		loader:   loader,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
