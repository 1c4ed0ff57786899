package program

import (
	"errors"

	"github.com/specialistvlad/cyclesim/internal/dag"
)

// buildOrder builds the static port dependency graph and stores its
// topological order. Edges run from every port an assignment reads (source,
// guard and, for gated assignments, the group's go hole) to its destination,
// from each group's done hole to its go hole, and along the combinational
// dependencies primitives declare. Stateful outputs have no incoming edges.
func (p *Program) buildOrder() error {
	g := dag.New[PortID]()
	for i := range p.Ports {
		g.AddNode(PortID(i))
	}

	var err error
	edge := func(from, to PortID) {
		if err == nil {
			err = g.AddEdge(from, to)
		}
	}

	for i := range p.Assigns {
		a := &p.Assigns[i]
		if a.Src.IsPort() {
			edge(a.Src.Port, a.Dst)
		}
		a.Guard.Ports(func(id PortID) { edge(id, a.Dst) })
		if a.Gated {
			edge(p.Groups[a.Group].Go, a.Dst)
		}
	}
	for i := range p.Groups {
		if grp := &p.Groups[i]; !grp.Comb {
			edge(grp.Done, grp.Go)
		}
	}
	for i := range p.Cells {
		c := &p.Cells[i]
		sig := c.Prim.Signature()
		for out, ins := range sig.CombDeps {
			o := c.Outputs[sig.OutputIndex(out)]
			for _, in := range ins {
				edge(c.Inputs[sig.InputIndex(in)], o)
			}
		}
	}
	if err != nil {
		return p.cycleError(err)
	}

	order, err := g.TopoSort()
	if err != nil {
		return p.cycleError(err)
	}
	p.Order = order
	return nil
}

func (p *Program) cycleError(err error) error {
	var ce *dag.CycleError[PortID]
	if errors.As(err, &ce) {
		port := p.Ports[ce.Node]
		return &LoadError{
			Component: p.Instances[port.Instance].Component,
			Ident:     port.Name,
			Reason:    "combinational cycle",
		}
	}
	return err
}
