package app

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/specialistvlad/cyclesim/internal/ctxlog"
	"github.com/specialistvlad/cyclesim/internal/datafile"
	"github.com/specialistvlad/cyclesim/internal/driver"
	"github.com/specialistvlad/cyclesim/internal/program"
	"github.com/specialistvlad/cyclesim/internal/watch"
)

// loadProgram reads the program files and links the entry component.
func (a *App) loadProgram(ctx context.Context) (*program.Program, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading program...", "path", a.config.ProgramPath)

	defs, err := a.loader.Load(ctx, a.config.ProgramPath)
	if err != nil {
		return nil, err
	}
	prog, err := program.Load(ctx, defs, a.registry, a.config.Entry)
	if err != nil {
		return nil, err
	}
	logger.Info("Program loaded.", "entry", prog.Entry, "cells", len(prog.Cells), "ports", len(prog.Ports), "groups", len(prog.Groups))
	return prog, nil
}

// seed loads the data file, if any, into the external cells of d.
func (a *App) seed(ctx context.Context, d *driver.Driver) error {
	if a.config.DataPath == "" {
		return nil
	}
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading data file...", "path", a.config.DataPath)

	v, err := datafile.NewValidator()
	if err != nil {
		return err
	}
	b, err := os.ReadFile(a.config.DataPath)
	if err != nil {
		return fmt.Errorf("reading data file: %w", err)
	}
	if problems := v.Problems(b); len(problems) > 0 {
		for _, p := range problems {
			logger.Error("Data file problem.", "path", a.config.DataPath, "problem", p)
		}
		return fmt.Errorf("%s: schema validation failed with %d problem(s)", a.config.DataPath, len(problems))
	}

	data, err := datafile.Read(v, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("%s: %w", a.config.DataPath, err)
	}
	if err := datafile.Seed(d, data); err != nil {
		return fmt.Errorf("%s: %w", a.config.DataPath, err)
	}
	logger.Info("Data file loaded.", "cells", len(data))
	return nil
}

// loadWatch compiles the break policy, if any.
func (a *App) loadWatch(ctx context.Context) (*watch.Policy, error) {
	if a.config.BreakPath == "" {
		return nil, nil
	}
	return watch.Load(ctx, a.config.BreakPath, a.config.BreakQuery)
}

// writeState extracts the external cells of d into the output.
func (a *App) writeState(d *driver.Driver) error {
	state, err := datafile.Extract(d)
	if err != nil {
		return err
	}
	if a.config.OutPath == "" {
		return datafile.Write(a.outW, state)
	}

	f, err := os.Create(a.config.OutPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := datafile.Write(f, state); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
