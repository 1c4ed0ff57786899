package scheduler

import (
	"context"
	"fmt"
	"slices"

	"github.com/specialistvlad/cyclesim/internal/ctxlog"
	"github.com/specialistvlad/cyclesim/internal/eval"
	"github.com/specialistvlad/cyclesim/internal/primitive"
	"github.com/specialistvlad/cyclesim/internal/program"
	"github.com/specialistvlad/cyclesim/internal/value"
)

// Scheduler holds the runtime position of the entry component's control tree.
type Scheduler struct {
	prog *program.Program
	eval *eval.Evaluator
	root *run
	busy []bool
	// lastCheck is the cycle in which each while statement last sampled its
	// condition, indexed by Control.ID.
	lastCheck []int
}

// New creates a scheduler positioned before the first statement.
func New(prog *program.Program, ev *eval.Evaluator) *Scheduler {
	s := &Scheduler{
		prog:      prog,
		eval:      ev,
		root:      newRun(prog.Instances[program.RootInst].Control),
		busy:      make([]bool, len(prog.Instances)),
		lastCheck: make([]int, prog.NumControls),
	}
	for i := range s.lastCheck {
		s.lastCheck[i] = -1
	}
	return s
}

// pass carries the state of one Schedule call.
type pass struct {
	ctx    context.Context
	cycle  int
	states []primitive.State
	set    *eval.ActiveSet
	// scope holds the instances and argument drives of the invokes
	// enclosing the statement being scheduled. Groups and write-backs are
	// never added, so it does not depend on the order of par children.
	scope *eval.ActiveSet
}

// Schedule advances the control tree for cycle and returns the active set
// for it, extending base. done is true once the entry component's control
// has finished; the returned set is then meaningless.
func (s *Scheduler) Schedule(ctx context.Context, cycle int, states []primitive.State, base *eval.ActiveSet) (*eval.ActiveSet, bool, error) {
	p := &pass{ctx: ctx, cycle: cycle, states: states, set: base.Clone(), scope: base.Clone()}
	done, err := s.activate(s.root, p)
	if err != nil {
		return nil, false, err
	}
	return p.set, done, nil
}

// Observe marks every running enable whose done hole settled to 1 as
// finished.
func (s *Scheduler) Observe(vals eval.Values) {
	s.observe(s.root, vals)
}

func (s *Scheduler) observe(r *run, vals eval.Values) {
	if r == nil || r.finished {
		return
	}
	switch r.ctl.Kind {
	case program.CtlEnable:
		if r.active && vals[s.prog.Groups[r.ctl.Group].Done].IsTrue() {
			r.active = false
			r.finished = true
		}
	case program.CtlSeq:
		s.observe(r.cur, vals)
	case program.CtlPar:
		for _, k := range r.kids {
			s.observe(k, vals)
		}
	case program.CtlIf, program.CtlWhile:
		s.observe(r.branch, vals)
	case program.CtlInvoke:
		if r.phase == invokeRunning {
			s.observe(r.sub, vals)
		}
	}
}

// activate advances r as far as possible within the current cycle and adds
// what it needs to the active set. It reports whether r has finished.
func (s *Scheduler) activate(r *run, p *pass) (bool, error) {
	if r.finished {
		return true, nil
	}
	ctl := r.ctl
	switch ctl.Kind {
	case program.CtlEmpty:
		r.finished = true

	case program.CtlEnable:
		if !r.active {
			ctxlog.FromContext(p.ctx).Debug("Group enabled.", "group", s.prog.Groups[ctl.Group].Name, "cycle", p.cycle)
		}
		r.active = true
		p.set.AddGroup(ctl.Group)

	case program.CtlSeq:
		for r.idx < len(ctl.Children) {
			if r.cur == nil {
				r.cur = newRun(ctl.Children[r.idx])
			}
			done, err := s.activate(r.cur, p)
			if err != nil || !done {
				return false, err
			}
			r.idx++
			r.cur = nil
		}
		r.finished = true

	case program.CtlPar:
		if r.kids == nil {
			r.kids = make([]*run, len(ctl.Children))
			for i, c := range ctl.Children {
				r.kids[i] = newRun(c)
			}
		}
		all := true
		for _, k := range r.kids {
			done, err := s.activate(k, p)
			if err != nil {
				return false, err
			}
			all = all && done
		}
		r.finished = all

	case program.CtlIf:
		if r.branch == nil {
			cond, err := s.condition(ctl, p)
			if err != nil {
				return false, err
			}
			pick := ctl.Children[1]
			if cond.IsTrue() {
				pick = ctl.Children[0]
			}
			r.branch = newRun(pick)
		}
		done, err := s.activate(r.branch, p)
		if err != nil {
			return false, err
		}
		r.finished = done

	case program.CtlWhile:
		for {
			if r.branch == nil {
				if s.lastCheck[ctl.ID] == p.cycle {
					return false, nil
				}
				s.lastCheck[ctl.ID] = p.cycle
				cond, err := s.condition(ctl, p)
				if err != nil {
					return false, err
				}
				if !cond.IsTrue() {
					r.finished = true
					break
				}
				r.branch = newRun(ctl.Children[0])
			}
			done, err := s.activate(r.branch, p)
			if err != nil || !done {
				return false, err
			}
			r.branch = nil
		}

	case program.CtlInvoke:
		return s.invoke(r, p)

	default:
		return false, &ControlError{Node: s.prog.Instances[ctl.Instance].Name, Reason: fmt.Sprintf("unsupported statement %s", ctl.Kind)}
	}
	return r.finished, nil
}

// settleScope settles the enclosing invoke scope plus group g, if any.
func (s *Scheduler) settleScope(p *pass, g program.GroupID) (eval.Values, error) {
	set := &eval.ActiveSet{
		Instances: slices.Clone(p.scope.Instances),
		Drives:    slices.Clone(p.scope.Drives),
	}
	if g != program.NoGroup {
		set.AddGroup(g)
	}
	return s.eval.Settle(set, p.states)
}

// condition settles the condition port of an if or while using the
// enclosing invoke scope plus the statement's comb group.
func (s *Scheduler) condition(ctl *program.Control, p *pass) (value.Value, error) {
	vals, err := s.settleScope(p, ctl.With)
	if err != nil {
		return value.Value{}, err
	}
	cond := vals[ctl.Cond]
	if !cond.IsDefined() {
		ctxlog.FromContext(p.ctx).Warn("Condition is not defined, taking it as false.",
			"statement", ctl.Kind.String(),
			"port", s.prog.Ports[ctl.Cond].Name,
			"cycle", p.cycle,
		)
	}
	return cond, nil
}

func (s *Scheduler) invoke(r *run, p *pass) (bool, error) {
	ctl := r.ctl
	target := &s.prog.Instances[ctl.Target]

	if r.phase == invokeEnter {
		if s.busy[ctl.Target] {
			return false, &ControlError{Node: target.Name, Reason: "invoked while already running"}
		}
		// Arguments see the enclosing scope only, not sibling groups.
		vals, err := s.settleScope(p, program.NoGroup)
		if err != nil {
			return false, err
		}
		r.inVals = make([]value.Value, len(ctl.InArgs))
		for i, b := range ctl.InArgs {
			r.inVals[i] = vals.Operand(b.Src)
		}
		s.busy[ctl.Target] = true
		r.sub = newRun(target.Control)
		r.phase = invokeRunning
		ctxlog.FromContext(p.ctx).Debug("Invoke started.", "instance", target.Name, "cycle", p.cycle)
	}

	if r.phase == invokeRunning {
		instMark, driveMark := len(p.set.Instances), len(p.set.Drives)
		scopeInst, scopeDrive := len(p.scope.Instances), len(p.scope.Drives)
		p.set.AddInstance(ctl.Target)
		s.driveInputs(r, p.set)
		p.scope.AddInstance(ctl.Target)
		s.driveInputs(r, p.scope)
		done, err := s.activate(r.sub, p)
		p.scope.Instances = p.scope.Instances[:scopeInst]
		p.scope.Drives = p.scope.Drives[:scopeDrive]
		if err != nil || !done {
			return false, err
		}
		p.set.Instances = p.set.Instances[:instMark]
		p.set.Drives = p.set.Drives[:driveMark]

		outs := &eval.ActiveSet{Instances: []program.InstID{ctl.Target}}
		s.driveInputs(r, outs)
		vals, err := s.eval.Settle(outs, p.states)
		if err != nil {
			return false, err
		}
		r.outVals = make([]value.Value, len(ctl.OutArgs))
		for i, b := range ctl.OutArgs {
			r.outVals[i] = vals[b.Port]
		}
		s.busy[ctl.Target] = false
		ctxlog.FromContext(p.ctx).Debug("Invoke finished.", "instance", target.Name, "cycle", p.cycle)

		if len(ctl.OutArgs) == 0 {
			r.finished = true
			return true, nil
		}
		r.phase = invokeWriteback
		r.wbCycle = p.cycle
	}

	if p.cycle > r.wbCycle {
		r.finished = true
		return true, nil
	}
	for i, b := range ctl.OutArgs {
		p.set.AddDrive(eval.Drive{
			Port:   b.Dst,
			Value:  r.outVals[i],
			Source: "write-back of " + s.prog.Ports[b.Port].Name,
		})
	}
	return false, nil
}

func (s *Scheduler) driveInputs(r *run, set *eval.ActiveSet) {
	for i, b := range r.ctl.InArgs {
		set.AddDrive(eval.Drive{
			Port:   b.Port,
			Value:  r.inVals[i],
			Source: "argument of " + s.prog.Instances[r.ctl.Target].Name,
		})
	}
}
