package program

import (
	"fmt"

	"github.com/specialistvlad/cyclesim/internal/model"
	"github.com/specialistvlad/cyclesim/internal/portid"
)

// validate runs every static check of one component and returns all
// failures in declaration order.
func (s *compScope) validate() []error {
	var errs []error
	name := s.def.Name
	fail := func(ident string, err error) {
		errs = append(errs, &LoadError{Component: name, Ident: ident, Reason: err.Error()})
	}

	for _, g := range s.def.Groups {
		if _, ok := s.groups[g.Name]; !ok {
			continue
		}
		for _, a := range g.Assigns {
			if err := s.checkAssign(a, g.Name); err != nil {
				fail(g.Name, err)
			}
		}
		if !g.Comb && !s.hasDone(g) {
			fail(g.Name, fmt.Errorf("group never assigns its done hole"))
		}
		if err := checkDrivers(g.Assigns); err != nil {
			fail(g.Name, err)
		}
	}

	for _, a := range s.def.Wires {
		if err := s.checkAssign(a, ""); err != nil {
			fail(a.Dst.String(), err)
		}
	}
	if err := checkDrivers(s.def.Wires); err != nil {
		fail("wires", err)
	}

	if s.def.Control != nil {
		s.checkControl(s.def.Control, fail)
	}
	return errs
}

func (s *compScope) hasDone(g *model.Group) bool {
	for _, a := range g.Assigns {
		if a.Dst.Cell == g.Name && a.Dst.Port == portid.HoleDone {
			return true
		}
	}
	return false
}

func (s *compScope) checkAssign(a *model.Assignment, owner string) error {
	dst, err := s.writable(a.Dst, owner)
	if err != nil {
		return err
	}
	srcWidth, err := s.operandWidth(a.Src, dst.width)
	if err != nil {
		return fmt.Errorf("%s: %w", a, err)
	}
	if srcWidth != dst.width {
		return fmt.Errorf("%s: width mismatch: destination has %d bits, source has %d", a, dst.width, srcWidth)
	}
	if err := s.checkGuard(a.Guard); err != nil {
		return fmt.Errorf("%s: guard: %w", a, err)
	}
	return nil
}

func (s *compScope) checkGuard(g model.Guard) error {
	switch g := g.(type) {
	case nil, model.True:
		return nil
	case model.PortGuard:
		info, err := s.port(g.Ref)
		if err != nil {
			return err
		}
		if info.width != 1 {
			return fmt.Errorf("'%s' is used as a condition but has %d bits", g.Ref, info.width)
		}
		return nil
	case model.Not:
		return s.checkGuard(g.Inner)
	case model.And:
		if err := s.checkGuard(g.Left); err != nil {
			return err
		}
		return s.checkGuard(g.Right)
	case model.Or:
		if err := s.checkGuard(g.Left); err != nil {
			return err
		}
		return s.checkGuard(g.Right)
	case model.Compare:
		_, _, err := s.compareWidths(g)
		return err
	}
	return fmt.Errorf("unsupported guard %T", g)
}

// compareWidths types both sides of a comparison. At least one side must be
// a port so that literals can take its width.
func (s *compScope) compareWidths(c model.Compare) (int, int, error) {
	if c.Left.Port == nil && c.Right.Port == nil {
		return 0, 0, fmt.Errorf("comparison %s has no port operand", model.GuardString(c))
	}
	var lw, rw int
	var err error
	if c.Left.Port != nil {
		if lw, err = s.operandWidth(c.Left, 0); err != nil {
			return 0, 0, err
		}
		if rw, err = s.operandWidth(c.Right, lw); err != nil {
			return 0, 0, err
		}
	} else {
		if rw, err = s.operandWidth(c.Right, 0); err != nil {
			return 0, 0, err
		}
		if lw, err = s.operandWidth(c.Left, rw); err != nil {
			return 0, 0, err
		}
	}
	if lw != rw {
		return 0, 0, fmt.Errorf("comparison %s: width mismatch: %d vs %d bits", model.GuardString(c), lw, rw)
	}
	return lw, rw, nil
}

func (s *compScope) checkControl(c model.Control, fail func(string, error)) {
	switch c := c.(type) {
	case *model.Empty:
	case *model.Enable:
		g, ok := s.groups[c.Group]
		switch {
		case !ok:
			fail(c.Group, fmt.Errorf("enable of unknown group"))
		case g.Comb:
			fail(c.Group, fmt.Errorf("combinational group cannot be enabled"))
		}
	case *model.Seq:
		for _, st := range c.Stmts {
			s.checkControl(st, fail)
		}
	case *model.Par:
		for _, st := range c.Stmts {
			s.checkControl(st, fail)
		}
	case *model.If:
		s.checkCond(c.Port, c.With, fail)
		s.checkControl(c.Then, fail)
		if c.Else != nil {
			s.checkControl(c.Else, fail)
		}
	case *model.While:
		s.checkCond(c.Port, c.With, fail)
		s.checkControl(c.Body, fail)
	case *model.Invoke:
		s.checkInvoke(c, fail)
	case nil:
		fail("control", fmt.Errorf("missing statement"))
	default:
		fail("control", fmt.Errorf("unsupported statement %T", c))
	}
}

func (s *compScope) checkCond(port model.PortRef, with string, fail func(string, error)) {
	info, err := s.port(port)
	if err != nil {
		fail(port.String(), err)
	} else if info.width != 1 {
		fail(port.String(), fmt.Errorf("condition port must be 1 bit, has %d", info.width))
	}
	if with == "" {
		return
	}
	g, ok := s.groups[with]
	switch {
	case !ok:
		fail(with, fmt.Errorf("unknown 'with' group"))
	case !g.Comb:
		fail(with, fmt.Errorf("'with' group must be combinational"))
	}
}

func (s *compScope) checkInvoke(c *model.Invoke, fail func(string, error)) {
	cs, ok := s.cells[c.Cell]
	if !ok {
		fail(c.Cell, fmt.Errorf("invoke of unknown cell"))
		return
	}
	if cs.comp == nil {
		fail(c.Cell, fmt.Errorf("invoke target must be a component cell, '%s' is a primitive", cs.def.Prototype))
		return
	}

	seen := make(map[string]bool)
	for _, b := range c.Inputs {
		if seen[b.Port] {
			fail(c.Cell, fmt.Errorf("port '%s' is bound twice", b.Port))
			continue
		}
		seen[b.Port] = true
		info, ok := cs.ports[b.Port]
		if !ok || info.kind != refSubInput {
			fail(c.Cell, fmt.Errorf("'%s' is not an input of '%s'", b.Port, cs.comp.Name))
			continue
		}
		w, err := s.operandWidth(b.Src, info.width)
		if err != nil {
			fail(c.Cell, fmt.Errorf("input '%s': %w", b.Port, err))
		} else if w != info.width {
			fail(c.Cell, fmt.Errorf("input '%s': width mismatch: port has %d bits, argument has %d", b.Port, info.width, w))
		}
	}
	for _, b := range c.Outputs {
		if seen[b.Port] {
			fail(c.Cell, fmt.Errorf("port '%s' is bound twice", b.Port))
			continue
		}
		seen[b.Port] = true
		info, ok := cs.ports[b.Port]
		if !ok || info.kind != refSubOutput {
			fail(c.Cell, fmt.Errorf("'%s' is not an output of '%s'", b.Port, cs.comp.Name))
			continue
		}
		dst, err := s.writable(b.Dst, "")
		if err != nil {
			fail(c.Cell, fmt.Errorf("output '%s': %w", b.Port, err))
		} else if dst.width != info.width {
			fail(c.Cell, fmt.Errorf("output '%s': width mismatch: port has %d bits, destination has %d", b.Port, info.width, dst.width))
		}
	}
}
