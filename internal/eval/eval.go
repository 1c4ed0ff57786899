package eval

import (
	"github.com/specialistvlad/cyclesim/internal/primitive"
	"github.com/specialistvlad/cyclesim/internal/program"
	"github.com/specialistvlad/cyclesim/internal/value"
)

// Evaluator settles the ports of one program.
type Evaluator struct {
	prog *program.Program
}

// New creates an evaluator for prog.
func New(prog *program.Program) *Evaluator {
	return &Evaluator{prog: prog}
}

// settle carries the per-call lookup tables.
type settle struct {
	prog        *program.Program
	states      []primitive.State
	instActive  []bool
	groupActive []bool
	drives      map[program.PortID][]Drive
	vals        Values
}

// Settle computes the value of every port for the given active set and
// primitive states. It never mutates states.
func (e *Evaluator) Settle(set *ActiveSet, states []primitive.State) (Values, error) {
	prog := e.prog
	s := &settle{
		prog:        prog,
		states:      states,
		instActive:  make([]bool, len(prog.Instances)),
		groupActive: make([]bool, len(prog.Groups)),
		drives:      make(map[program.PortID][]Drive, len(set.Drives)),
		vals:        make(Values, len(prog.Ports)),
	}
	for _, id := range set.Instances {
		s.instActive[id] = true
	}
	for _, id := range set.Groups {
		s.groupActive[id] = true
	}
	for _, d := range set.Drives {
		s.drives[d.Port] = append(s.drives[d.Port], d)
	}

	for _, pid := range prog.Order {
		port := &prog.Ports[pid]
		if !s.instActive[port.Instance] {
			continue
		}
		switch port.Kind {
		case program.PortCellOutput:
			s.vals[pid] = s.poke(port)
		case program.PortGo:
			if s.groupActive[port.Group] {
				done := s.vals[prog.Groups[port.Group].Done]
				s.vals[pid] = value.Bool(!done.IsTrue())
			}
		default:
			v, err := s.merge(pid)
			if err != nil {
				return nil, err
			}
			s.vals[pid] = v
		}
	}
	return s.vals, nil
}

func (s *settle) poke(port *program.Port) value.Value {
	cell := &s.prog.Cells[port.Cell]
	in := make([]value.Value, len(cell.Inputs))
	for i, ip := range cell.Inputs {
		in[i] = s.vals[ip]
	}
	return cell.Prim.Poke(s.states[port.Cell], in)[port.Index]
}

// merge combines every enabled driver of a port.
func (s *settle) merge(pid program.PortID) (value.Value, error) {
	acc := value.Unknown()
	accSrc := ""
	add := func(v value.Value, src string) error {
		if v.IsUnknown() {
			return nil
		}
		merged := value.Merge(acc, v)
		if merged.IsConflict() {
			return &ConflictError{
				Port:    s.prog.Ports[pid].Name,
				Sources: [2]string{accSrc, src},
				Values:  [2]value.Value{acc, v},
			}
		}
		if acc.IsUnknown() {
			accSrc = src
		}
		acc = merged
		return nil
	}

	for _, aid := range s.prog.Ports[pid].Drivers {
		a := &s.prog.Assigns[aid]
		if !s.enabled(a) {
			continue
		}
		if err := add(s.vals.Operand(a.Src), a.Text); err != nil {
			return value.Value{}, err
		}
	}
	for _, d := range s.drives[pid] {
		if err := add(d.Value, d.Source); err != nil {
			return value.Value{}, err
		}
	}
	return acc, nil
}

func (s *settle) enabled(a *program.Assign) bool {
	if !s.instActive[a.Instance] {
		return false
	}
	if a.Group != program.NoGroup {
		if !s.groupActive[a.Group] {
			return false
		}
		if a.Gated && !s.vals[s.prog.Groups[a.Group].Go].IsTrue() {
			return false
		}
	}
	return evalGuard(a.Guard, s.vals).IsTrue()
}
