package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/cyclesim/internal/ctxlog"
	"github.com/specialistvlad/cyclesim/internal/driver"
	"github.com/specialistvlad/cyclesim/internal/trace"
)

// Run loads, seeds and simulates the configured program, then writes the
// final state of its external cells.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	prog, err := a.loadProgram(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoad, err)
	}

	opts := []driver.Option{
		driver.WithMaxCycles(a.config.MaxCycles),
		driver.WithWorkers(a.config.Workers),
	}
	if a.config.TraceURL != "" {
		pub, err := trace.Dial(ctx, a.config.TraceURL, "/")
		if err != nil {
			return fmt.Errorf("failed to start trace publisher: %w", err)
		}
		defer pub.Close()
		opts = append(opts, driver.WithObserver(pub.Observer()))
	}

	d := driver.New(ctx, prog, opts...)
	if err := a.seed(ctx, d); err != nil {
		return fmt.Errorf("%w: %w", ErrLoad, err)
	}
	policy, err := a.loadWatch(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoad, err)
	}

	a.logger.Info("Starting simulation.", "workers", a.config.Workers, "max_cycles", a.config.MaxCycles)
	if policy != nil {
		hit, err := d.RunUntil(ctx, policy.Predicate(ctx))
		if err != nil {
			return fmt.Errorf("simulation failed: %w", err)
		}
		if hit {
			a.logger.Info("Stopped at watchpoint.", "cycles", d.Cycles())
		}
	} else if err := d.Run(ctx); err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	if err := a.writeState(d); err != nil {
		return fmt.Errorf("failed to write final state: %w", err)
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}
