// Package primitive defines the contract every leaf hardware element
// satisfies. The evaluator and the updater only ever talk to primitives
// through this contract and never branch on a primitive's name.
package primitive

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/specialistvlad/cyclesim/internal/value"
)

// Direction of a port relative to its primitive.
type Direction uint8

const (
	Input Direction = iota
	Output
)

// String returns "input" or "output".
func (d Direction) String() string {
	if d == Output {
		return "output"
	}
	return "input"
}

// PortSpec declares one port of a primitive.
type PortSpec struct {
	Name  string
	Dir   Direction
	Width int
}

// Signature is the static description of a primitive instance.
type Signature struct {
	Inputs  []PortSpec
	Outputs []PortSpec
	// CombDeps lists, per output name, the inputs that output reads
	// combinationally. Outputs absent from the map depend only on state.
	CombDeps map[string][]string
	Stateful bool
}

// InputIndex returns the position of the named input, or -1.
func (s Signature) InputIndex(name string) int {
	for i, p := range s.Inputs {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// OutputIndex returns the position of the named output, or -1.
func (s Signature) OutputIndex(name string) int {
	for i, p := range s.Outputs {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// ErrHeld is wrapped by Tick errors reporting a write that was skipped
// because its data or address is not defined. The state returned with it
// is the held state and is installed; the run goes on.
var ErrHeld = errors.New("write held")

// State is the opaque per-cell state owned by a primitive. Implementations
// treat states as immutable values: Tick returns a new state instead of
// mutating the one it was given.
type State any

// Primitive is the contract of a leaf element. Input and output slices are
// ordered as in Signature.
type Primitive interface {
	Signature() Signature
	// Init returns the state of a freshly instantiated cell.
	Init() State
	// Poke computes the outputs from the current state and inputs. It must be
	// pure; it is called any number of times per cycle.
	Poke(st State, in []value.Value) []value.Value
	// Tick computes the state after one clock edge. An error wrapping
	// ErrHeld is a warning, any other error is fatal.
	Tick(st State, in []value.Value) (State, error)
}

// Seedable is implemented by primitives whose state can be loaded before a
// run and dumped after it. Data is flattened in row-major order.
type Seedable interface {
	Primitive
	Dims() []int
	DataWidth() int
	Load(st State, data []*big.Int) (State, error)
	Dump(st State) []*big.Int
}

// Factory builds a primitive from its positional parameters.
type Factory func(params Params) (Primitive, error)

// Params are the positional parameters of a cell declaration.
type Params []*big.Int

// Int returns parameter i as a positive machine integer.
func (p Params) Int(i int) (int, error) {
	if i >= len(p) {
		return 0, fmt.Errorf("missing parameter %d", i)
	}
	if p[i].Sign() <= 0 || !p[i].IsInt64() || p[i].Int64() > 1<<20 {
		return 0, fmt.Errorf("parameter %d: %s is out of range", i, p[i])
	}
	return int(p[i].Int64()), nil
}

// Big returns parameter i unchanged.
func (p Params) Big(i int) (*big.Int, error) {
	if i >= len(p) {
		return nil, fmt.Errorf("missing parameter %d", i)
	}
	return p[i], nil
}

// Expect returns an error unless exactly n parameters are present.
func (p Params) Expect(n int) error {
	if len(p) != n {
		return fmt.Errorf("expected %d parameters, got %d", n, len(p))
	}
	return nil
}

// Ints is a helper for tests and loaders building Params from literals.
func Ints(vs ...int64) Params {
	p := make(Params, len(vs))
	for i, v := range vs {
		p[i] = big.NewInt(v)
	}
	return p
}
