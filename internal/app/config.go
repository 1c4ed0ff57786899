package app

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/cyclesim/internal/program"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ProgramPath string // hcl file or directory
	Entry       string // entry component, "main" when empty
	DataPath    string // json seed file, optional
	OutPath     string // final state file, outW when empty

	MaxCycles  int // 0 is unbounded
	BreakPath  string
	BreakQuery string
	Workers    int
	TraceURL   string

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ProgramPath == "" {
		return nil, errors.New("ProgramPath is a required configuration field and cannot be empty")
	}
	if cfg.Entry == "" {
		cfg.Entry = program.DefaultEntry
	}
	if cfg.MaxCycles < 0 {
		return nil, fmt.Errorf("max-cycles must not be negative, got %d", cfg.MaxCycles)
	}
	if cfg.Workers == 0 {
		cfg.Workers = 1
	}
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("workers must be positive, got %d", cfg.Workers)
	}
	if cfg.BreakQuery != "" && cfg.BreakPath == "" {
		return nil, errors.New("break-query needs a break policy file")
	}
	if _, ok := logLevels[cfg.LogLevel]; cfg.LogLevel != "" && !ok {
		return nil, fmt.Errorf("invalid log level '%s'", cfg.LogLevel)
	}
	return &cfg, nil
}
