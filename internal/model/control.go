// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

// Control is a node of a component's control tree.
type Control interface {
	isControl()
}

type (
	// Seq runs its statements one after another.
	Seq struct{ Stmts []Control }
	// Par starts its statements together and completes when all have.
	Par struct{ Stmts []Control }
	// If selects a branch from a 1-bit port, optionally computed by a
	// combinational group. A nil Else is empty.
	If struct {
		Port       PortRef
		With       string
		Then, Else Control
	}
	// While runs Body as long as Port reads 1 before an iteration.
	While struct {
		Port PortRef
		With string
		Body Control
	}
	// Enable runs a group until its done hole reads 1.
	Enable struct{ Group string }
	// Invoke runs a component cell to completion with bound arguments.
	Invoke struct {
		Cell    string
		Inputs  []InputBinding
		Outputs []OutputBinding
	}
	// Empty does nothing and takes no time.
	Empty struct{}
)

// InputBinding drives an input port of the invoked cell.
type InputBinding struct {
	Port string
	Src  Atom
}

// OutputBinding writes an output port of the invoked cell back to Dst.
type OutputBinding struct {
	Port string
	Dst  PortRef
}

func (*Seq) isControl()    {}
func (*Par) isControl()    {}
func (*If) isControl()     {}
func (*While) isControl()  {}
func (*Enable) isControl() {}
func (*Invoke) isControl() {}
func (*Empty) isControl()  {}
