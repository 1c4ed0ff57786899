package eval

import (
	"slices"

	"github.com/specialistvlad/cyclesim/internal/program"
	"github.com/specialistvlad/cyclesim/internal/value"
)

// Drive is a value placed on a port from outside the assignment arena: a
// latched invoke argument, an invoke write-back, or a host input.
type Drive struct {
	Port   program.PortID
	Value  value.Value
	Source string
}

// ActiveSet is what the scheduler hands the evaluator for one settle.
type ActiveSet struct {
	Groups    []program.GroupID
	Instances []program.InstID
	Drives    []Drive
}

// AddGroup marks a group active.
func (s *ActiveSet) AddGroup(id program.GroupID) {
	s.Groups = append(s.Groups, id)
}

// AddInstance marks a component instance as running.
func (s *ActiveSet) AddInstance(id program.InstID) {
	s.Instances = append(s.Instances, id)
}

// AddDrive adds a boundary drive.
func (s *ActiveSet) AddDrive(d Drive) {
	s.Drives = append(s.Drives, d)
}

// Clone returns an independent copy.
func (s *ActiveSet) Clone() *ActiveSet {
	return &ActiveSet{
		Groups:    slices.Clone(s.Groups),
		Instances: slices.Clone(s.Instances),
		Drives:    slices.Clone(s.Drives),
	}
}

// Values holds one settled value per port, indexed by PortID.
type Values []value.Value

// Get returns the value of a port.
func (v Values) Get(id program.PortID) value.Value {
	return v[id]
}

// Operand reads an operand: the port's value or the literal.
func (v Values) Operand(o program.Operand) value.Value {
	if o.IsPort() {
		return v[o.Port]
	}
	return o.Lit
}
