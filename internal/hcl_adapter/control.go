package hcl_adapter

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/cyclesim/internal/hclutil"
	"github.com/specialistvlad/cyclesim/internal/model"
	"github.com/zclconf/go-cty/cty"
)

// translateControlBody reads the body of a `control` block, which holds a
// single statement. An empty body is the empty statement.
func translateControlBody(body hcl.Body) (model.Control, hcl.Diagnostics) {
	syn, ok := body.(*hclsyntax.Body)
	if !ok {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Unsupported syntax",
			Detail:   "Control must be written in native HCL syntax.",
		}}
	}
	diags := hclutil.OnlyBlocks(syn, "control")
	switch len(syn.Blocks) {
	case 0:
		return &model.Empty{}, diags
	case 1:
		ctl, ctlDiags := statement(syn.Blocks[0])
		return ctl, append(diags, ctlDiags...)
	}
	return nil, append(diags, errorDiag("Too many statements",
		"A control block holds exactly one statement; wrap several in seq or par.", syn.Blocks[1].DefRange()))
}

// statementList reads a body of statements. A single statement stands for
// itself, several form an implicit seq.
func statementList(body *hclsyntax.Body, owner string) (model.Control, hcl.Diagnostics) {
	diags := hclutil.OnlyBlocks(body, owner)
	stmts, stmtDiags := statements(body.Blocks)
	diags = append(diags, stmtDiags...)
	switch len(stmts) {
	case 0:
		return &model.Empty{}, diags
	case 1:
		return stmts[0], diags
	}
	return &model.Seq{Stmts: stmts}, diags
}

func statements(blocks hclsyntax.Blocks) ([]model.Control, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	stmts := make([]model.Control, 0, len(blocks))
	for _, b := range blocks {
		ctl, ctlDiags := statement(b)
		diags = append(diags, ctlDiags...)
		if ctl != nil {
			stmts = append(stmts, ctl)
		}
	}
	return stmts, diags
}

func statement(b *hclsyntax.Block) (model.Control, hcl.Diagnostics) {
	switch b.Type {
	case "seq", "par":
		diags := hclutil.OnlyBlocks(b.Body, b.Type)
		stmts, stmtDiags := statements(b.Body.Blocks)
		diags = append(diags, stmtDiags...)
		if b.Type == "seq" {
			return &model.Seq{Stmts: stmts}, diags
		}
		return &model.Par{Stmts: stmts}, diags

	case "enable":
		if len(b.Labels) != 1 {
			return nil, hcl.Diagnostics{errorDiag("Invalid enable", "enable takes exactly one label: the group name.", b.DefRange())}
		}
		return &model.Enable{Group: b.Labels[0]}, nil

	case "empty":
		return &model.Empty{}, nil

	case "if":
		port, with, diags := condition(b)
		diags = append(diags, unexpectedBlocks(b)...)
		then, thenDiags := branch(b, "then", true)
		diags = append(diags, thenDiags...)
		els, elseDiags := branch(b, "else", false)
		diags = append(diags, elseDiags...)
		return &model.If{Port: port, With: with, Then: then, Else: els}, diags

	case "while":
		port, with, diags := condition(b)
		diags = append(diags, unexpectedBlocks(b)...)
		body, bodyDiags := branch(b, "do", true)
		diags = append(diags, bodyDiags...)
		return &model.While{Port: port, With: with, Body: body}, diags

	case "invoke":
		return invoke(b)
	}
	return nil, hcl.Diagnostics{errorDiag("Unknown statement",
		fmt.Sprintf("%q is not a control statement.", b.Type), b.DefRange())}
}

// condition reads the `port` and optional `with` attributes of if and while.
func condition(b *hclsyntax.Block) (model.PortRef, string, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	var port model.PortRef
	var with string

	for name, attr := range b.Body.Attributes {
		switch name {
		case "port":
			ref, refDiags := portRef(attr.Expr)
			diags = append(diags, refDiags...)
			port = ref
		case "with":
			v, valDiags := attr.Expr.Value(nil)
			diags = append(diags, valDiags...)
			if valDiags.HasErrors() {
				continue
			}
			if v.Type() != cty.String || v.IsNull() {
				diags = append(diags, errorDiag("Invalid with", "with names a comb_group as a string.", attr.Expr.Range()))
				continue
			}
			with = v.AsString()
		default:
			diags = append(diags, errorDiag("Unexpected attribute",
				fmt.Sprintf("%q is not an attribute of %s.", name, b.Type), attr.NameRange))
		}
	}
	if _, ok := b.Body.Attributes["port"]; !ok {
		diags = append(diags, errorDiag("Missing port", fmt.Sprintf("%s requires a port attribute.", b.Type), b.DefRange()))
	}
	return port, with, diags
}

// branch reads a nested statement list such as `then { ... }`.
func branch(b *hclsyntax.Block, name string, required bool) (model.Control, hcl.Diagnostics) {
	found, diags := hclutil.FindUniqueBlock(b.Body.Blocks, name)
	if found == nil {
		if required {
			diags = append(diags, errorDiag("Missing block",
				fmt.Sprintf("%s requires a %q block.", b.Type, name), b.DefRange()))
		}
		return &model.Empty{}, diags
	}
	ctl, ctlDiags := statementList(found.Body, name)
	return ctl, append(diags, ctlDiags...)
}

var branchBlocks = map[string][]string{
	"if":    {"then", "else"},
	"while": {"do"},
}

// unexpectedBlocks reports nested blocks other than the statement's branches.
func unexpectedBlocks(b *hclsyntax.Block) hcl.Diagnostics {
	allowed := branchBlocks[b.Type]
	var diags hcl.Diagnostics
	for _, nested := range b.Body.Blocks {
		ok := false
		for _, name := range allowed {
			ok = ok || nested.Type == name
		}
		if !ok {
			diags = append(diags, errorDiag("Unexpected block",
				fmt.Sprintf("%q is not allowed inside %s.", nested.Type, b.Type), nested.DefRange()))
		}
	}
	return diags
}

func invoke(b *hclsyntax.Block) (model.Control, hcl.Diagnostics) {
	if len(b.Labels) != 1 {
		return nil, hcl.Diagnostics{errorDiag("Invalid invoke", "invoke takes exactly one label: the cell name.", b.DefRange())}
	}
	inv := &model.Invoke{Cell: b.Labels[0]}
	var diags hcl.Diagnostics

	for name, attr := range b.Body.Attributes {
		if name != "inputs" && name != "outputs" {
			diags = append(diags, errorDiag("Unexpected attribute",
				fmt.Sprintf("%q is not an attribute of invoke.", name), attr.NameRange))
			continue
		}
		pairs, pairDiags := hcl.ExprMap(attr.Expr)
		diags = append(diags, pairDiags...)
		for _, kv := range pairs {
			key := hcl.ExprAsKeyword(kv.Key)
			if key == "" {
				diags = append(diags, errorDiag("Invalid binding", "Binding keys are port names.", kv.Key.Range()))
				continue
			}
			if name == "inputs" {
				src, srcDiags := atom(kv.Value)
				diags = append(diags, srcDiags...)
				inv.Inputs = append(inv.Inputs, model.InputBinding{Port: key, Src: src})
			} else {
				dst, dstDiags := portRef(kv.Value)
				diags = append(diags, dstDiags...)
				inv.Outputs = append(inv.Outputs, model.OutputBinding{Port: key, Dst: dst})
			}
		}
	}
	if len(b.Body.Blocks) > 0 {
		diags = append(diags, errorDiag("Unexpected block", "invoke has no nested blocks.", b.Body.Blocks[0].DefRange()))
	}
	return inv, diags
}
