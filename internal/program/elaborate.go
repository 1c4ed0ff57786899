package program

import (
	"fmt"

	"github.com/specialistvlad/cyclesim/internal/model"
	"github.com/specialistvlad/cyclesim/internal/portid"
	"github.com/specialistvlad/cyclesim/internal/primitive"
	"github.com/specialistvlad/cyclesim/internal/registry"
	"github.com/specialistvlad/cyclesim/internal/value"
)

// builder instantiates validated components into the program arenas.
type builder struct {
	prog        *Program
	scopes      map[string]*compScope
	reg         *registry.Registry
	nextControl int
}

// instScope maps the names of one component instance to arena IDs.
type instScope struct {
	id       InstID
	scope    *compScope
	addr     *portid.Address
	sig      map[string]PortID
	cells    map[string]map[string]PortID
	groups   map[string]GroupID
	children map[string]InstID
}

func newBuilder(scopes map[string]*compScope, reg *registry.Registry) *builder {
	return &builder{
		prog: &Program{
			portIndex:  make(map[string]PortID),
			cellIndex:  make(map[string]CellID),
			groupIndex: make(map[string]GroupID),
			instIndex:  make(map[string]InstID),
		},
		scopes: scopes,
		reg:    reg,
	}
}

func (b *builder) addPort(p Port) PortID {
	id := PortID(len(b.prog.Ports))
	b.prog.Ports = append(b.prog.Ports, p)
	b.prog.portIndex[p.Name] = id
	return id
}

func (b *builder) instantiate(comp string, parent InstID, addr *portid.Address) (InstID, error) {
	s := b.scopes[comp]
	id := InstID(len(b.prog.Instances))
	b.prog.Instances = append(b.prog.Instances, Instance{
		Name:      addr.String(),
		Component: comp,
		Parent:    parent,
		Inputs:    make(map[string]PortID),
		Outputs:   make(map[string]PortID),
	})
	b.prog.instIndex[addr.String()] = id

	is := &instScope{
		id:       id,
		scope:    s,
		addr:     addr,
		sig:      make(map[string]PortID),
		cells:    make(map[string]map[string]PortID),
		groups:   make(map[string]GroupID),
		children: make(map[string]InstID),
	}

	for _, p := range s.def.Inputs {
		pid := b.addPort(b.sigPort(addr, p, primitive.Input, id))
		is.sig[p.Name] = pid
		b.prog.Instances[id].Inputs[p.Name] = pid
	}
	for _, p := range s.def.Outputs {
		pid := b.addPort(b.sigPort(addr, p, primitive.Output, id))
		is.sig[p.Name] = pid
		b.prog.Instances[id].Outputs[p.Name] = pid
	}

	for _, c := range s.def.Cells {
		if err := b.addCell(is, c); err != nil {
			return NoInst, err
		}
	}

	for _, g := range s.def.Groups {
		b.addGroup(is, g)
	}

	for _, g := range s.def.Groups {
		gid := is.groups[g.Name]
		for _, a := range g.Assigns {
			aid, err := b.addAssign(is, a, gid)
			if err != nil {
				return NoInst, err
			}
			b.prog.Groups[gid].Assigns = append(b.prog.Groups[gid].Assigns, aid)
		}
	}
	for _, a := range s.def.Wires {
		aid, err := b.addAssign(is, a, NoGroup)
		if err != nil {
			return NoInst, err
		}
		b.prog.Instances[id].Wires = append(b.prog.Instances[id].Wires, aid)
	}

	ctl, err := b.control(is, s.def.Control)
	if err != nil {
		return NoInst, err
	}
	b.prog.Instances[id].Control = ctl
	return id, nil
}

func (b *builder) sigPort(addr *portid.Address, p model.PortDef, dir primitive.Direction, inst InstID) Port {
	return Port{
		Name:     addr.Child(p.Name).String(),
		Width:    p.Width,
		Kind:     PortSignature,
		Dir:      dir,
		Instance: inst,
		Cell:     NoCell,
		Group:    NoGroup,
	}
}

func (b *builder) addCell(is *instScope, c *model.Cell) error {
	cs := is.scope.cells[c.Name]
	cellAddr := is.addr.Child(c.Name)

	if cs.comp != nil {
		child, err := b.instantiate(cs.comp.Name, is.id, cellAddr)
		if err != nil {
			return err
		}
		ports := make(map[string]PortID)
		for name, pid := range b.prog.Instances[child].Inputs {
			ports[name] = pid
		}
		for name, pid := range b.prog.Instances[child].Outputs {
			ports[name] = pid
		}
		is.cells[c.Name] = ports
		is.children[c.Name] = child
		return nil
	}

	prim, err := b.reg.Instantiate(c.Prototype, c.Params)
	if err != nil {
		return &LoadError{Component: is.scope.def.Name, Ident: c.Name, Reason: err.Error()}
	}
	sig := prim.Signature()
	cid := CellID(len(b.prog.Cells))
	cell := Cell{
		Name:      cellAddr.String(),
		Prototype: c.Prototype,
		Instance:  is.id,
		Prim:      prim,
		Stateful:  sig.Stateful,
		External:  c.External,
	}
	ports := make(map[string]PortID)
	for i, p := range sig.Inputs {
		pid := b.addPort(Port{
			Name: cellAddr.Child(p.Name).String(), Width: p.Width, Kind: PortCellInput, Dir: primitive.Input,
			Instance: is.id, Cell: cid, Index: i, Group: NoGroup,
		})
		cell.Inputs = append(cell.Inputs, pid)
		ports[p.Name] = pid
	}
	for i, p := range sig.Outputs {
		pid := b.addPort(Port{
			Name: cellAddr.Child(p.Name).String(), Width: p.Width, Kind: PortCellOutput, Dir: primitive.Output,
			Instance: is.id, Cell: cid, Index: i, Group: NoGroup,
		})
		cell.Outputs = append(cell.Outputs, pid)
		ports[p.Name] = pid
	}
	b.prog.Cells = append(b.prog.Cells, cell)
	b.prog.cellIndex[cell.Name] = cid
	b.prog.Instances[is.id].Cells = append(b.prog.Instances[is.id].Cells, cid)
	is.cells[c.Name] = ports
	return nil
}

func (b *builder) addGroup(is *instScope, g *model.Group) {
	gid := GroupID(len(b.prog.Groups))
	gAddr := is.addr.Child(g.Name)
	grp := Group{Name: gAddr.String(), Instance: is.id, Comb: g.Comb, Go: NoPort, Done: NoPort}
	if !g.Comb {
		hole := func(name string, kind PortKind) PortID {
			return b.addPort(Port{
				Name: gAddr.WithHole(name).String(), Width: 1, Kind: kind, Dir: primitive.Input,
				Instance: is.id, Cell: NoCell, Group: gid,
			})
		}
		grp.Go = hole(portid.HoleGo, PortGo)
		grp.Done = hole(portid.HoleDone, PortDone)
	}
	b.prog.Groups = append(b.prog.Groups, grp)
	b.prog.groupIndex[grp.Name] = gid
	b.prog.Instances[is.id].Groups = append(b.prog.Instances[is.id].Groups, gid)
	is.groups[g.Name] = gid
}

// resolve maps a validated reference to its port.
func (b *builder) resolve(is *instScope, ref model.PortRef) PortID {
	if ref.Cell == "" {
		return is.sig[ref.Port]
	}
	if ports, ok := is.cells[ref.Cell]; ok {
		return ports[ref.Port]
	}
	g := b.prog.Groups[is.groups[ref.Cell]]
	if ref.Port == portid.HoleGo {
		return g.Go
	}
	return g.Done
}

func (b *builder) operand(is *instScope, a model.Atom, width int) (Operand, error) {
	if a.Port != nil {
		return Operand{Port: b.resolve(is, *a.Port)}, nil
	}
	w := a.Lit.Width
	if w == 0 {
		w = width
	}
	v, err := value.New(w, a.Lit.Value)
	if err != nil {
		return Operand{}, &LoadError{Component: is.scope.def.Name, Ident: a.String(), Reason: err.Error()}
	}
	return Operand{Port: NoPort, Lit: v}, nil
}

func (b *builder) addAssign(is *instScope, a *model.Assignment, gid GroupID) (AssignID, error) {
	dst := b.resolve(is, a.Dst)
	src, err := b.operand(is, a.Src, b.prog.Ports[dst].Width)
	if err != nil {
		return 0, err
	}
	guard, err := b.guard(is, a.Guard)
	if err != nil {
		return 0, err
	}

	owner := is.addr.String() + " wires"
	gated := false
	if gid != NoGroup {
		g := b.prog.Groups[gid]
		owner = g.Name
		gated = !g.Comb && dst != g.Done
	}

	aid := AssignID(len(b.prog.Assigns))
	b.prog.Assigns = append(b.prog.Assigns, Assign{
		Instance: is.id,
		Group:    gid,
		Dst:      dst,
		Src:      src,
		Guard:    guard,
		Gated:    gated,
		Text:     fmt.Sprintf("%s: %s", owner, a),
	})
	b.prog.Ports[dst].Drivers = append(b.prog.Ports[dst].Drivers, aid)
	return aid, nil
}

func (b *builder) guard(is *instScope, g model.Guard) (*Guard, error) {
	switch g := g.(type) {
	case nil, model.True:
		return nil, nil
	case model.PortGuard:
		return &Guard{Op: GuardPort, Port: b.resolve(is, g.Ref)}, nil
	case model.Not:
		inner, err := b.guard(is, g.Inner)
		if err != nil {
			return nil, err
		}
		return &Guard{Op: GuardNot, Left: inner}, nil
	case model.And, model.Or:
		op, l, r := GuardAnd, model.Guard(nil), model.Guard(nil)
		if and, ok := g.(model.And); ok {
			l, r = and.Left, and.Right
		} else {
			or := g.(model.Or)
			op, l, r = GuardOr, or.Left, or.Right
		}
		left, err := b.guard(is, l)
		if err != nil {
			return nil, err
		}
		right, err := b.guard(is, r)
		if err != nil {
			return nil, err
		}
		return &Guard{Op: op, Left: left, Right: right}, nil
	case model.Compare:
		lw, rw, err := is.scope.compareWidths(g)
		if err != nil {
			return nil, &LoadError{Component: is.scope.def.Name, Ident: model.GuardString(g), Reason: err.Error()}
		}
		a, err := b.operand(is, g.Left, lw)
		if err != nil {
			return nil, err
		}
		c, err := b.operand(is, g.Right, rw)
		if err != nil {
			return nil, err
		}
		return &Guard{Op: GuardCmp, Cmp: g.Op, A: a, B: c}, nil
	}
	return nil, fmt.Errorf("unsupported guard %T", g)
}

func (b *builder) control(is *instScope, c model.Control) (*Control, error) {
	ctl := &Control{
		ID:       b.nextControl,
		Instance: is.id,
		Group:    NoGroup,
		Cond:     NoPort,
		With:     NoGroup,
		Target:   NoInst,
	}
	b.nextControl++

	children := func(stmts ...model.Control) error {
		for _, st := range stmts {
			child, err := b.control(is, st)
			if err != nil {
				return err
			}
			ctl.Children = append(ctl.Children, child)
		}
		return nil
	}

	switch c := c.(type) {
	case nil, *model.Empty:
		ctl.Kind = CtlEmpty
	case *model.Enable:
		ctl.Kind = CtlEnable
		ctl.Group = is.groups[c.Group]
	case *model.Seq:
		ctl.Kind = CtlSeq
		if err := children(c.Stmts...); err != nil {
			return nil, err
		}
	case *model.Par:
		ctl.Kind = CtlPar
		if err := children(c.Stmts...); err != nil {
			return nil, err
		}
	case *model.If:
		ctl.Kind = CtlIf
		ctl.Cond = b.resolve(is, c.Port)
		if c.With != "" {
			ctl.With = is.groups[c.With]
		}
		if err := children(c.Then, c.Else); err != nil {
			return nil, err
		}
	case *model.While:
		ctl.Kind = CtlWhile
		ctl.Cond = b.resolve(is, c.Port)
		if c.With != "" {
			ctl.With = is.groups[c.With]
		}
		if err := children(c.Body); err != nil {
			return nil, err
		}
	case *model.Invoke:
		ctl.Kind = CtlInvoke
		ctl.Target = is.children[c.Cell]
		sub := b.prog.Instances[ctl.Target]
		for _, in := range c.Inputs {
			port := sub.Inputs[in.Port]
			src, err := b.operand(is, in.Src, b.prog.Ports[port].Width)
			if err != nil {
				return nil, err
			}
			ctl.InArgs = append(ctl.InArgs, Binding{Port: port, Src: src, Dst: NoPort})
		}
		for _, out := range c.Outputs {
			ctl.OutArgs = append(ctl.OutArgs, Binding{
				Port: sub.Outputs[out.Port],
				Src:  Operand{Port: NoPort},
				Dst:  b.resolve(is, out.Dst),
			})
		}
	default:
		return nil, fmt.Errorf("unsupported control statement %T", c)
	}
	return ctl, nil
}
