package driver

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sort"

	"github.com/specialistvlad/cyclesim/internal/ctxlog"
	"github.com/specialistvlad/cyclesim/internal/eval"
	"github.com/specialistvlad/cyclesim/internal/portid"
	"github.com/specialistvlad/cyclesim/internal/primitive"
	"github.com/specialistvlad/cyclesim/internal/program"
	"github.com/specialistvlad/cyclesim/internal/scheduler"
	"github.com/specialistvlad/cyclesim/internal/update"
	"github.com/specialistvlad/cyclesim/internal/value"
)

var (
	// ErrCycleLimit is returned when the cycle budget is exhausted before
	// the program completes.
	ErrCycleLimit = errors.New("cycle limit reached")
	// ErrStarted is returned when state is seeded after the first step.
	ErrStarted = errors.New("simulation already started")
)

// Driver owns the run of one program.
type Driver struct {
	prog      *program.Program
	eval      *eval.Evaluator
	sched     *scheduler.Scheduler
	upd       *update.Updater
	inputs    map[program.PortID]value.Value
	values    eval.Values
	active    []program.GroupID
	cycle     int
	done      bool
	started   bool
	err       error
	maxCycles int
	workers   int
	observers []Observer
}

// New creates a driver with every cell in its initial state.
func New(ctx context.Context, prog *program.Program, opts ...Option) *Driver {
	d := &Driver{
		prog:    prog,
		inputs:  make(map[program.PortID]value.Value),
		workers: 1,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.eval = eval.New(prog)
	d.sched = scheduler.New(prog, d.eval)
	d.upd = update.New(prog, d.workers)
	ctxlog.FromContext(ctx).Debug("Driver created.", "entry", prog.Entry, "cells", len(prog.Cells), "workers", d.workers, "max_cycles", d.maxCycles)
	return d
}

// Program returns the program being simulated.
func (d *Driver) Program() *program.Program { return d.prog }

// Cycles returns the number of completed cycles.
func (d *Driver) Cycles() int { return d.cycle }

// Done reports whether the entry component's control has completed.
func (d *Driver) Done() bool { return d.done }

// Step executes one cycle. It reports true, without consuming a cycle, once
// the program has completed. Errors are sticky.
func (d *Driver) Step(ctx context.Context) (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	if d.done {
		return true, nil
	}
	done, err := d.step(ctx)
	if err != nil {
		d.err = err
	}
	return done, err
}

func (d *Driver) step(ctx context.Context) (bool, error) {
	logger := ctxlog.FromContext(ctx)
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if d.maxCycles > 0 && d.cycle >= d.maxCycles {
		return false, fmt.Errorf("%w after %d cycles", ErrCycleLimit, d.cycle)
	}
	d.started = true
	states := d.upd.States()

	set, done, err := d.sched.Schedule(ctx, d.cycle, states, d.base())
	if err != nil {
		return false, fmt.Errorf("cycle %d: %w", d.cycle, err)
	}
	if done {
		d.done = true
		logger.Info("Run complete.", "cycles", d.cycle)
		return true, nil
	}

	vals, err := d.eval.Settle(set, states)
	if err != nil {
		return false, fmt.Errorf("cycle %d: %w", d.cycle, err)
	}
	d.sched.Observe(vals)
	if err := d.upd.Tick(ctx, vals); err != nil {
		return false, fmt.Errorf("cycle %d: %w", d.cycle, err)
	}

	d.values = vals
	d.active = set.Groups
	d.cycle++
	logger.Debug("Cycle complete.", "cycle", d.cycle, "active_groups", len(set.Groups))

	if len(d.observers) > 0 {
		snap := d.Snapshot()
		for _, o := range d.observers {
			if err := o(snap); err != nil {
				return false, fmt.Errorf("observer failed after cycle %d: %w", d.cycle, err)
			}
		}
	}
	return false, nil
}

// base is the part of the active set every cycle starts from: the entry
// instance and the host-driven inputs.
func (d *Driver) base() *eval.ActiveSet {
	set := &eval.ActiveSet{Instances: []program.InstID{program.RootInst}}
	ids := make([]program.PortID, 0, len(d.inputs))
	for id := range d.inputs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		set.AddDrive(eval.Drive{Port: id, Value: d.inputs[id], Source: "host input"})
	}
	return set
}

// Run steps until the program completes, the cycle budget is exhausted or
// ctx is cancelled.
func (d *Driver) Run(ctx context.Context) error {
	for {
		done, err := d.Step(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// RunUntil steps until pred holds for the snapshot after a cycle. It reports
// false when the program completed first.
func (d *Driver) RunUntil(ctx context.Context, pred func(Snapshot) (bool, error)) (bool, error) {
	for {
		done, err := d.Step(ctx)
		if err != nil {
			return false, err
		}
		if done {
			return false, nil
		}
		hit, err := pred(d.Snapshot())
		if err != nil {
			return false, fmt.Errorf("predicate failed after cycle %d: %w", d.cycle, err)
		}
		if hit {
			return true, nil
		}
	}
}

// ReadPort returns the settled value of a port in the last completed cycle.
// Before the first cycle every port is Unknown.
func (d *Driver) ReadPort(name string) (value.Value, error) {
	id, err := d.port(name)
	if err != nil {
		return value.Value{}, err
	}
	if d.values == nil {
		return value.Unknown(), nil
	}
	return d.values[id], nil
}

// SetInput drives an input of the entry component for all following cycles.
// An Unknown value releases the input.
func (d *Driver) SetInput(name string, v value.Value) error {
	id, ok := d.prog.Instances[program.RootInst].Inputs[name]
	if !ok {
		return fmt.Errorf("entry component has no input '%s'", name)
	}
	if v.IsUnknown() {
		delete(d.inputs, id)
		return nil
	}
	if !v.IsDefined() || v.Width() != d.prog.Ports[id].Width {
		return fmt.Errorf("input '%s' expects %d bits, got %s", name, d.prog.Ports[id].Width, v)
	}
	d.inputs[id] = v
	return nil
}

// ReadState returns the flattened contents of a seedable cell.
func (d *Driver) ReadState(name string) ([]*big.Int, error) {
	id, err := d.cell(name)
	if err != nil {
		return nil, err
	}
	return d.upd.Dump(id)
}

// Seed replaces the contents of a seedable cell. It must be called before
// the first step.
func (d *Driver) Seed(name string, data []*big.Int) error {
	if d.started {
		return fmt.Errorf("seeding '%s': %w", name, ErrStarted)
	}
	id, err := d.cell(name)
	if err != nil {
		return err
	}
	return d.upd.Load(id, data)
}

// ExternalCell describes a cell whose contents are seeded and extracted.
type ExternalCell struct {
	// Name is relative to the entry component.
	Name  string
	Dims  []int
	Width int
}

// ExternalCells lists the external cells of the program, in arena order.
func (d *Driver) ExternalCells() []ExternalCell {
	var cells []ExternalCell
	for _, id := range d.prog.ExternalCells() {
		c := &d.prog.Cells[id]
		s, ok := c.Prim.(primitive.Seedable)
		if !ok {
			continue
		}
		addr, err := portid.Parse(c.Name)
		if err != nil {
			continue
		}
		cells = append(cells, ExternalCell{Name: addr.Rel(d.prog.Entry), Dims: s.Dims(), Width: s.DataWidth()})
	}
	return cells
}

// port resolves a port name, either fully qualified or relative to the
// entry component.
func (d *Driver) port(name string) (program.PortID, error) {
	for _, n := range d.qualify(name) {
		if id, ok := d.prog.PortByName(n); ok {
			return id, nil
		}
	}
	return program.NoPort, fmt.Errorf("unknown port '%s'", name)
}

func (d *Driver) cell(name string) (program.CellID, error) {
	for _, n := range d.qualify(name) {
		if id, ok := d.prog.CellByName(n); ok {
			return id, nil
		}
	}
	return program.NoCell, fmt.Errorf("unknown cell '%s'", name)
}

func (d *Driver) qualify(name string) []string {
	addr, err := portid.Parse(name)
	if err != nil {
		return nil
	}
	rel := portid.New(d.prog.Entry)
	rel.Path = append(rel.Path, addr.Path...)
	rel.Hole = addr.Hole
	return []string{addr.String(), rel.String()}
}
