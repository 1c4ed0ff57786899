package program

import (
	"fmt"

	"github.com/specialistvlad/cyclesim/internal/model"
	"github.com/specialistvlad/cyclesim/internal/portid"
	"github.com/specialistvlad/cyclesim/internal/primitive"
	"github.com/specialistvlad/cyclesim/internal/registry"
	"github.com/specialistvlad/cyclesim/internal/value"
)

// refKind classifies what a model.PortRef resolves to inside a component.
type refKind uint8

const (
	refSigInput refKind = iota
	refSigOutput
	refCellInput
	refCellOutput
	refSubInput
	refSubOutput
	refGo
	refDone
)

type portInfo struct {
	width int
	kind  refKind
}

// cellScope is the static view of one cell: either a primitive with its
// signature or a component cell exposing the sub-component's signature.
type cellScope struct {
	def   *model.Cell
	prim  primitive.Primitive
	comp  *model.Component
	ports map[string]portInfo
}

// compScope resolves names inside one component definition.
type compScope struct {
	def    *model.Component
	sig    map[string]portInfo
	cells  map[string]*cellScope
	groups map[string]*model.Group
}

func newCompScope(def *model.Component, defs *model.Definitions, reg *registry.Registry) (*compScope, []error) {
	s := &compScope{
		def:    def,
		sig:    make(map[string]portInfo),
		cells:  make(map[string]*cellScope),
		groups: make(map[string]*model.Group),
	}
	var errs []error
	fail := func(ident, format string, args ...any) {
		errs = append(errs, loadErrorf(def.Name, ident, format, args...))
	}

	for _, p := range def.Inputs {
		s.addSig(p, refSigInput, fail)
	}
	for _, p := range def.Outputs {
		s.addSig(p, refSigOutput, fail)
	}

	for _, c := range def.Cells {
		if !validName(c.Name) {
			fail(c.Name, "invalid cell name")
			continue
		}
		if _, dup := s.cells[c.Name]; dup {
			fail(c.Name, "duplicate cell name")
			continue
		}
		cs, err := newCellScope(c, defs, reg)
		if err != nil {
			fail(c.Name, "%v", err)
			continue
		}
		s.cells[c.Name] = cs
	}

	for _, g := range def.Groups {
		if !validName(g.Name) {
			fail(g.Name, "invalid group name")
			continue
		}
		if _, dup := s.cells[g.Name]; dup {
			fail(g.Name, "group name collides with a cell")
			continue
		}
		if _, dup := s.groups[g.Name]; dup {
			fail(g.Name, "duplicate group name")
			continue
		}
		s.groups[g.Name] = g
	}

	return s, errs
}

func (s *compScope) addSig(p model.PortDef, kind refKind, fail func(string, string, ...any)) {
	switch {
	case !validName(p.Name):
		fail(p.Name, "invalid port name")
	case p.Width <= 0:
		fail(p.Name, "port width must be positive, got %d", p.Width)
	default:
		if _, dup := s.sig[p.Name]; dup {
			fail(p.Name, "duplicate signature port")
			return
		}
		s.sig[p.Name] = portInfo{width: p.Width, kind: kind}
	}
}

func validName(name string) bool {
	addr, err := portid.Parse(name)
	return err == nil && len(addr.Path) == 1 && !addr.IsHole()
}

func newCellScope(c *model.Cell, defs *model.Definitions, reg *registry.Registry) (*cellScope, error) {
	cs := &cellScope{def: c, ports: make(map[string]portInfo)}

	if sub, ok := defs.Components[c.Prototype]; ok {
		if len(c.Params) > 0 {
			return nil, fmt.Errorf("component cell of '%s' takes no parameters", c.Prototype)
		}
		if c.External {
			return nil, fmt.Errorf("only primitive cells can be external")
		}
		cs.comp = sub
		for _, p := range sub.Inputs {
			cs.ports[p.Name] = portInfo{width: p.Width, kind: refSubInput}
		}
		for _, p := range sub.Outputs {
			cs.ports[p.Name] = portInfo{width: p.Width, kind: refSubOutput}
		}
		return cs, nil
	}

	if !reg.Has(c.Prototype) {
		return nil, fmt.Errorf("unknown prototype '%s'", c.Prototype)
	}
	prim, err := reg.Instantiate(c.Prototype, c.Params)
	if err != nil {
		return nil, err
	}
	if _, ok := prim.(primitive.Seedable); c.External && !ok {
		return nil, fmt.Errorf("primitive '%s' cannot be external", c.Prototype)
	}
	cs.prim = prim
	sig := prim.Signature()
	for _, p := range sig.Inputs {
		cs.ports[p.Name] = portInfo{width: p.Width, kind: refCellInput}
	}
	for _, p := range sig.Outputs {
		cs.ports[p.Name] = portInfo{width: p.Width, kind: refCellOutput}
	}
	return cs, nil
}

// port resolves a reference inside the component.
func (s *compScope) port(ref model.PortRef) (portInfo, error) {
	if ref.Cell == "" {
		info, ok := s.sig[ref.Port]
		if !ok {
			return portInfo{}, fmt.Errorf("unknown port '%s'", ref.Port)
		}
		return info, nil
	}
	if cs, ok := s.cells[ref.Cell]; ok {
		info, ok := cs.ports[ref.Port]
		if !ok {
			return portInfo{}, fmt.Errorf("cell '%s' has no port '%s'", ref.Cell, ref.Port)
		}
		return info, nil
	}
	if g, ok := s.groups[ref.Cell]; ok {
		if g.Comb {
			return portInfo{}, fmt.Errorf("combinational group '%s' has no holes", ref.Cell)
		}
		switch ref.Port {
		case portid.HoleGo:
			return portInfo{width: 1, kind: refGo}, nil
		case portid.HoleDone:
			return portInfo{width: 1, kind: refDone}, nil
		}
		return portInfo{}, fmt.Errorf("group '%s' has no hole '%s'", ref.Cell, ref.Port)
	}
	return portInfo{}, fmt.Errorf("unknown cell or group '%s'", ref.Cell)
}

// writable resolves a destination written by owner, the group name or "" for
// continuous assignments and invoke write-backs.
func (s *compScope) writable(ref model.PortRef, owner string) (portInfo, error) {
	info, err := s.port(ref)
	if err != nil {
		return info, err
	}
	switch info.kind {
	case refSigOutput, refCellInput:
		return info, nil
	case refSigInput:
		return info, fmt.Errorf("component input '%s' cannot be assigned", ref)
	case refCellOutput:
		return info, fmt.Errorf("cell output '%s' cannot be assigned", ref)
	case refSubInput, refSubOutput:
		return info, fmt.Errorf("'%s' belongs to a component cell and is only driven by invoke", ref)
	case refGo:
		return info, fmt.Errorf("go hole '%s' cannot be assigned", ref)
	case refDone:
		if owner == "" || ref.Cell != owner {
			return info, fmt.Errorf("done hole '%s' can only be assigned by its own group", ref)
		}
		return info, nil
	}
	return info, fmt.Errorf("'%s' is not writable", ref)
}

// operandWidth types an atom. Unsized literals take the expected width,
// which is zero when nothing constrains them.
func (s *compScope) operandWidth(a model.Atom, expected int) (int, error) {
	switch {
	case a.Port != nil:
		info, err := s.port(*a.Port)
		if err != nil {
			return 0, err
		}
		return info.width, nil
	case a.Lit != nil:
		width := a.Lit.Width
		if width == 0 {
			width = expected
		}
		if width == 0 {
			return 0, fmt.Errorf("cannot infer the width of literal %s", a.Lit)
		}
		if !value.Fits(width, a.Lit.Value) {
			return 0, fmt.Errorf("literal %s does not fit in %d bits", a.Lit, width)
		}
		return width, nil
	}
	return 0, fmt.Errorf("empty operand")
}
