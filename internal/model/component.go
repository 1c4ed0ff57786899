// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import "sort"

// Definitions is the set of components loaded from one or more files.
type Definitions struct {
	Components map[string]*Component
}

// NewDefinitions creates and returns an initialized Definitions.
func NewDefinitions() *Definitions {
	return &Definitions{Components: make(map[string]*Component)}
}

// Names returns component names in sorted order.
func (d *Definitions) Names() []string {
	names := make([]string, 0, len(d.Components))
	for name := range d.Components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PortDef is one port of a component signature.
type PortDef struct {
	Name  string
	Width int
}

// Component is a named hardware definition.
type Component struct {
	Name    string
	Inputs  []PortDef
	Outputs []PortDef
	Cells   []*Cell
	Groups  []*Group
	// Wires are continuous assignments, active whenever the component
	// instance is running.
	Wires   []*Assignment
	Control Control
	// Source is the file the component was declared in, used in messages.
	Source string
}

// Cell instantiates a primitive or another component.
type Cell struct {
	Name      string
	Prototype string
	Params    []ParamValue
	// External cells are seeded before a run and extracted after it.
	External bool
}

// Group is a named set of assignments. A combinational group has no go/done
// holes and can only be used as the `with` group of if/while.
type Group struct {
	Name    string
	Comb    bool
	Assigns []*Assignment
}
