package memories

import (
	"fmt"
	"math/big"

	"github.com/specialistvlad/cyclesim/internal/primitive"
	"github.com/specialistvlad/cyclesim/internal/value"
)

// multLatency is the number of edges with go high before done rises.
const multLatency = 3

// multPipe is a multi-cycle multiplier. While go is held high it counts
// edges; on the last one it latches left*right and raises done for a cycle.
type multPipe struct {
	width int
}

type multState struct {
	count int
	out   *big.Int
	done  bool
}

const (
	multLeft = iota
	multRight
	multGo
)

func newMultPipe(params primitive.Params) (primitive.Primitive, error) {
	if err := params.Expect(1); err != nil {
		return nil, err
	}
	width, err := params.Int(0)
	if err != nil {
		return nil, err
	}
	return &multPipe{width: width}, nil
}

func (m *multPipe) Signature() primitive.Signature {
	return primitive.Signature{
		Inputs:   []primitive.PortSpec{in("left", m.width), in("right", m.width), in("go", 1)},
		Outputs:  []primitive.PortSpec{out("out", m.width), out("done", 1)},
		Stateful: true,
	}
}

func (m *multPipe) Init() primitive.State {
	return multState{out: new(big.Int)}
}

func (m *multPipe) Poke(st primitive.State, _ []value.Value) []value.Value {
	s := st.(multState)
	return []value.Value{value.Truncate(m.width, s.out), value.Bool(s.done)}
}

func (m *multPipe) Tick(st primitive.State, in []value.Value) (primitive.State, error) {
	s := st.(multState)
	if !in[multGo].IsTrue() || s.done {
		return multState{out: s.out}, nil
	}
	count := s.count + 1
	if count < multLatency {
		return multState{count: count, out: s.out}, nil
	}
	if !in[multLeft].IsDefined() || !in[multRight].IsDefined() {
		return multState{count: s.count, out: s.out}, fmt.Errorf("%w: go is high but an operand is undefined", primitive.ErrHeld)
	}
	product := new(big.Int).Mul(in[multLeft].Bits(), in[multRight].Bits())
	return multState{out: value.Mask(m.width, product), done: true}, nil
}
