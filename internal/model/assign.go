// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import (
	"fmt"
	"math/big"
	"strings"
)

// ParamValue is a primitive parameter as written in the source.
type ParamValue = *big.Int

// PortRef names a port relative to a component. Cell is empty for the
// component's own signature ports. When Cell names a group, Port is the
// hole ("go" or "done").
type PortRef struct {
	Cell string
	Port string
}

// String renders the reference as it appears in source.
func (p PortRef) String() string {
	if p.Cell == "" {
		return p.Port
	}
	return p.Cell + "." + p.Port
}

// Literal is a constant. Width is zero when the literal takes its width from
// the other side of an assignment or comparison.
type Literal struct {
	Width int
	Value *big.Int
}

// String renders the literal as it appears in source.
func (l Literal) String() string {
	if l.Width == 0 {
		return l.Value.String()
	}
	return fmt.Sprintf("bits(%d, %s)", l.Width, l.Value)
}

// Atom is either a port reference or a literal.
type Atom struct {
	Port *PortRef
	Lit  *Literal
}

// PortAtom returns an atom referencing a port.
func PortAtom(cell, port string) Atom {
	return Atom{Port: &PortRef{Cell: cell, Port: port}}
}

// LitAtom returns an atom holding an unsized literal.
func LitAtom(v int64) Atom {
	return Atom{Lit: &Literal{Value: big.NewInt(v)}}
}

// String renders the atom as it appears in source.
func (a Atom) String() string {
	if a.Port != nil {
		return a.Port.String()
	}
	if a.Lit != nil {
		return a.Lit.String()
	}
	return "<nil>"
}

// Assignment drives Dst from Src whenever Guard holds. A nil Guard is true.
type Assignment struct {
	Dst   PortRef
	Src   Atom
	Guard Guard
}

// String renders the assignment as `dst = guard ? src`.
func (a *Assignment) String() string {
	var sb strings.Builder
	sb.WriteString(a.Dst.String())
	sb.WriteString(" = ")
	if a.Guard != nil {
		sb.WriteString(GuardString(a.Guard))
		sb.WriteString(" ? ")
	}
	sb.WriteString(a.Src.String())
	return sb.String()
}
