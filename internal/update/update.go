package update

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"golang.org/x/sync/errgroup"

	"github.com/specialistvlad/cyclesim/internal/ctxlog"
	"github.com/specialistvlad/cyclesim/internal/eval"
	"github.com/specialistvlad/cyclesim/internal/primitive"
	"github.com/specialistvlad/cyclesim/internal/program"
	"github.com/specialistvlad/cyclesim/internal/value"
)

// ErrNotSeedable is returned when loading or dumping a cell whose primitive
// carries no addressable data.
var ErrNotSeedable = errors.New("cell is not seedable")

// Updater owns the double-buffered state of every cell.
type Updater struct {
	prog    *program.Program
	workers int
	front   []primitive.State
	back    []primitive.State
}

// New creates an updater with every cell in its initial state. workers below
// two tick serially.
func New(prog *program.Program, workers int) *Updater {
	u := &Updater{
		prog:    prog,
		workers: workers,
		front:   make([]primitive.State, len(prog.Cells)),
		back:    make([]primitive.State, len(prog.Cells)),
	}
	for i := range prog.Cells {
		u.front[i] = prog.Cells[i].Prim.Init()
	}
	return u
}

// States returns the current states, indexed by CellID. Callers must not
// modify the slice.
func (u *Updater) States() []primitive.State {
	return u.front
}

// Load replaces the state of a seedable cell with flattened data.
func (u *Updater) Load(id program.CellID, data []*big.Int) error {
	cell := &u.prog.Cells[id]
	s, ok := cell.Prim.(primitive.Seedable)
	if !ok {
		return &ContractError{Cell: cell.Name, Err: ErrNotSeedable}
	}
	st, err := s.Load(u.front[id], data)
	if err != nil {
		return &ContractError{Cell: cell.Name, Err: err}
	}
	u.front[id] = st
	return nil
}

// Dump returns the flattened data of a seedable cell.
func (u *Updater) Dump(id program.CellID) ([]*big.Int, error) {
	cell := &u.prog.Cells[id]
	s, ok := cell.Prim.(primitive.Seedable)
	if !ok {
		return nil, &ContractError{Cell: cell.Name, Err: ErrNotSeedable}
	}
	return s.Dump(u.front[id]), nil
}

// Tick computes every next state from vals and installs them together. On
// error the current states are left untouched. Held writes are logged as
// warnings.
func (u *Updater) Tick(ctx context.Context, vals eval.Values) error {
	logger := ctxlog.FromContext(ctx)
	n := len(u.prog.Cells)
	if u.workers < 2 || n < u.workers {
		for i := 0; i < n; i++ {
			if err := u.next(logger, program.CellID(i), vals); err != nil {
				return err
			}
		}
		u.swap()
		return nil
	}

	chunk := (n + u.workers - 1) / u.workers
	errs := make([]error, u.workers)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.workers)
	for w := 0; w < u.workers; w++ {
		start, end := w*chunk, min((w+1)*chunk, n)
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				if err := u.next(logger, program.CellID(i), vals); err != nil {
					errs[w] = err
					return nil
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	// The lowest failing cell wins regardless of scheduling.
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	u.swap()
	return nil
}

func (u *Updater) swap() {
	u.front, u.back = u.back, u.front
}

func (u *Updater) next(logger *slog.Logger, id program.CellID, vals eval.Values) error {
	cell := &u.prog.Cells[id]
	if !cell.Stateful {
		u.back[id] = u.front[id]
		return nil
	}
	in := make([]value.Value, len(cell.Inputs))
	for i, pid := range cell.Inputs {
		v := vals[pid]
		if v.IsConflict() {
			return &ContractError{Cell: cell.Name, Err: fmt.Errorf("input '%s' is in conflict", u.prog.Ports[pid].Name)}
		}
		in[i] = v
	}
	st, err := cell.Prim.Tick(u.front[id], in)
	if errors.Is(err, primitive.ErrHeld) {
		logger.Warn("Write held, state unchanged.", "cell", cell.Name, "reason", err.Error())
		err = nil
	}
	if err != nil {
		return &ContractError{Cell: cell.Name, Err: err}
	}
	u.back[id] = st
	return nil
}
