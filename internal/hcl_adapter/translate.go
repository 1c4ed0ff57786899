package hcl_adapter

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/cyclesim/internal/hclutil"
	"github.com/specialistvlad/cyclesim/internal/model"
	"github.com/zclconf/go-cty/cty"
)

func (l *Loader) translateComponent(ctx context.Context, b *componentBlock) (*model.Component, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	comp := &model.Component{
		Name:    b.Name,
		Inputs:  portDefs(b.Inputs),
		Outputs: portDefs(b.Outputs),
	}

	for _, c := range b.Cells {
		cell, cellDiags := translateCell(ctx, c)
		diags = append(diags, cellDiags...)
		comp.Cells = append(comp.Cells, cell)
	}

	for _, g := range b.Groups {
		group, groupDiags := translateGroup(ctx, g, false)
		diags = append(diags, groupDiags...)
		comp.Groups = append(comp.Groups, group)
	}
	for _, g := range b.CombGroups {
		group, groupDiags := translateGroup(ctx, g, true)
		diags = append(diags, groupDiags...)
		comp.Groups = append(comp.Groups, group)
	}

	for _, w := range b.Wires {
		for _, a := range w.Assigns {
			assign, assignDiags := translateAssign(ctx, a)
			diags = append(diags, assignDiags...)
			comp.Wires = append(comp.Wires, assign)
		}
	}

	if b.Control != nil {
		ctl, ctlDiags := translateControlBody(b.Control.Body)
		diags = append(diags, ctlDiags...)
		comp.Control = ctl
	} else {
		comp.Control = &model.Empty{}
	}
	return comp, diags
}

// portDefs turns a name = width map into signature ports, sorted by name.
func portDefs(m map[string]int) []model.PortDef {
	defs := make([]model.PortDef, 0, len(m))
	for name, width := range m {
		defs = append(defs, model.PortDef{Name: name, Width: width})
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

func translateCell(ctx context.Context, c *cellBlock) (*model.Cell, hcl.Diagnostics) {
	cell := &model.Cell{Name: c.Name, Prototype: c.Prototype, External: c.External}
	if !isExprDefined(ctx, c.Params, "params") {
		return cell, nil
	}

	val, diags := c.Params.Value(nil)
	if diags.HasErrors() {
		return cell, diags
	}
	if val.IsNull() {
		return cell, nil
	}
	if !val.Type().IsTupleType() && !val.Type().IsListType() {
		return cell, hcl.Diagnostics{errorDiag("Invalid cell parameters",
			fmt.Sprintf("The params of cell %q must be a list of numbers.", c.Name), c.Params.Range())}
	}
	for it := val.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		n, elemDiags := hclutil.BigInt(elem, c.Params.Range())
		diags = append(diags, elemDiags...)
		cell.Params = append(cell.Params, n)
	}
	return cell, diags
}

func translateGroup(ctx context.Context, g *groupBlock, comb bool) (*model.Group, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	group := &model.Group{Name: g.Name, Comb: comb}
	for _, a := range g.Assigns {
		assign, assignDiags := translateAssign(ctx, a)
		diags = append(diags, assignDiags...)
		group.Assigns = append(group.Assigns, assign)
	}
	return group, diags
}

func translateAssign(ctx context.Context, a *assignBlock) (*model.Assignment, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	assign := &model.Assignment{}

	dst, dstDiags := portRef(a.Dst)
	diags = append(diags, dstDiags...)
	assign.Dst = dst

	src, srcDiags := atom(a.Src)
	diags = append(diags, srcDiags...)
	assign.Src = src

	if isExprDefined(ctx, a.Guard, "guard") {
		guard, guardDiags := guardExpr(a.Guard)
		diags = append(diags, guardDiags...)
		assign.Guard = guard
	}
	return assign, diags
}

// portRef reads `port`, `cell.port` or `group.done`.
func portRef(expr hcl.Expression) (model.PortRef, hcl.Diagnostics) {
	t, diags := hcl.AbsTraversalForExpr(expr)
	if diags.HasErrors() {
		return model.PortRef{}, hcl.Diagnostics{errorDiag("Invalid port reference",
			"A port reference is either a signature port name or cell.port.", expr.Range())}
	}
	cell, port, ok := hclutil.SplitRef(t)
	if !ok {
		return model.PortRef{}, hcl.Diagnostics{errorDiag("Invalid port reference",
			fmt.Sprintf("%q is not of the form port or cell.port.", hclutil.TraversalKey(t)), expr.Range())}
	}
	return model.PortRef{Cell: cell, Port: port}, nil
}

// atom reads a port reference, a number or bits(width, value).
func atom(expr hcl.Expression) (model.Atom, hcl.Diagnostics) {
	switch e := expr.(type) {
	case *hclsyntax.ScopeTraversalExpr:
		ref, diags := portRef(e)
		return model.Atom{Port: &ref}, diags
	case *hclsyntax.LiteralValueExpr:
		n, diags := hclutil.BigInt(e.Val, e.Range())
		if diags.HasErrors() {
			return model.Atom{}, diags
		}
		return model.Atom{Lit: &model.Literal{Value: n}}, nil
	case *hclsyntax.FunctionCallExpr:
		if e.Name != "bits" || len(e.Args) != 2 {
			return model.Atom{}, hcl.Diagnostics{errorDiag("Unsupported function",
				"Only bits(width, value) may be used as a literal.", e.Range())}
		}
		var diags hcl.Diagnostics
		var lit model.Literal
		for i, arg := range e.Args {
			v, argDiags := arg.Value(nil)
			if argDiags.HasErrors() {
				diags = append(diags, argDiags...)
				continue
			}
			n, nDiags := hclutil.BigInt(v, arg.Range())
			diags = append(diags, nDiags...)
			if n == nil {
				continue
			}
			if i == 0 {
				if !n.IsInt64() || n.Int64() < 1 {
					diags = append(diags, errorDiag("Invalid width", "The width of bits() must be positive.", arg.Range()))
					continue
				}
				lit.Width = int(n.Int64())
			} else {
				lit.Value = n
			}
		}
		if diags.HasErrors() {
			return model.Atom{}, diags
		}
		return model.Atom{Lit: &lit}, nil
	}
	return model.Atom{}, hcl.Diagnostics{errorDiag("Invalid operand",
		"An operand is a port reference, a number, or bits(width, value).", expr.Range())}
}

var compareOps = map[*hclsyntax.Operation]model.CmpOp{
	hclsyntax.OpEqual:              model.CmpEq,
	hclsyntax.OpNotEqual:           model.CmpNeq,
	hclsyntax.OpLessThan:           model.CmpLt,
	hclsyntax.OpGreaterThan:        model.CmpGt,
	hclsyntax.OpLessThanOrEqual:    model.CmpLe,
	hclsyntax.OpGreaterThanOrEqual: model.CmpGe,
}

// guardExpr translates a guard syntactically; it is never evaluated by HCL.
func guardExpr(expr hcl.Expression) (model.Guard, hcl.Diagnostics) {
	switch e := expr.(type) {
	case *hclsyntax.ParenthesesExpr:
		return guardExpr(e.Expression)
	case *hclsyntax.LiteralValueExpr:
		if e.Val.Type() == cty.Bool && e.Val.True() {
			return model.True{}, nil
		}
	case *hclsyntax.ScopeTraversalExpr:
		ref, diags := portRef(e)
		return model.PortGuard{Ref: ref}, diags
	case *hclsyntax.UnaryOpExpr:
		if e.Op == hclsyntax.OpLogicalNot {
			inner, diags := guardExpr(e.Val)
			return model.Not{Inner: inner}, diags
		}
	case *hclsyntax.BinaryOpExpr:
		switch e.Op {
		case hclsyntax.OpLogicalAnd, hclsyntax.OpLogicalOr:
			left, diags := guardExpr(e.LHS)
			right, rightDiags := guardExpr(e.RHS)
			diags = append(diags, rightDiags...)
			if e.Op == hclsyntax.OpLogicalAnd {
				return model.And{Left: left, Right: right}, diags
			}
			return model.Or{Left: left, Right: right}, diags
		}
		if op, ok := compareOps[e.Op]; ok {
			left, diags := atom(e.LHS)
			right, rightDiags := atom(e.RHS)
			diags = append(diags, rightDiags...)
			return model.Compare{Op: op, Left: left, Right: right}, diags
		}
	}
	return nil, hcl.Diagnostics{errorDiag("Unsupported guard",
		"Guards combine 1-bit ports and comparisons with !, && and ||.", expr.Range())}
}
