// Package memories provides the stateful primitives of the standard library:
// registers, one- and two-dimensional memories and a pipelined multiplier.
package memories

import (
	"github.com/specialistvlad/cyclesim/internal/primitive"
	"github.com/specialistvlad/cyclesim/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers every stateful primitive with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterPrimitive("std_reg", newReg)
	r.RegisterPrimitive("std_mem_d1", newMemD1)
	r.RegisterPrimitive("std_mem_d2", newMemD2)
	r.RegisterPrimitive("std_mult_pipe", newMultPipe)
}

func in(name string, width int) primitive.PortSpec {
	return primitive.PortSpec{Name: name, Dir: primitive.Input, Width: width}
}

func out(name string, width int) primitive.PortSpec {
	return primitive.PortSpec{Name: name, Dir: primitive.Output, Width: width}
}
