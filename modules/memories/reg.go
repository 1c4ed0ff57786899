package memories

import (
	"fmt"
	"math/big"

	"github.com/specialistvlad/cyclesim/internal/primitive"
	"github.com/specialistvlad/cyclesim/internal/value"
)

// reg is a register with a write enable. done is high for exactly the cycle
// after a write.
type reg struct {
	width int
}

type regState struct {
	val  *big.Int
	done bool
}

const (
	regIn = iota
	regWriteEn
)

func newReg(params primitive.Params) (primitive.Primitive, error) {
	if err := params.Expect(1); err != nil {
		return nil, err
	}
	width, err := params.Int(0)
	if err != nil {
		return nil, err
	}
	return &reg{width: width}, nil
}

func (r *reg) Signature() primitive.Signature {
	return primitive.Signature{
		Inputs:   []primitive.PortSpec{in("in", r.width), in("write_en", 1)},
		Outputs:  []primitive.PortSpec{out("out", r.width), out("done", 1)},
		Stateful: true,
	}
}

func (r *reg) Init() primitive.State {
	return regState{val: new(big.Int)}
}

func (r *reg) Poke(st primitive.State, _ []value.Value) []value.Value {
	s := st.(regState)
	return []value.Value{value.Truncate(r.width, s.val), value.Bool(s.done)}
}

func (r *reg) Tick(st primitive.State, in []value.Value) (primitive.State, error) {
	s := st.(regState)
	if !in[regWriteEn].IsTrue() {
		return regState{val: s.val}, nil
	}
	if !in[regIn].IsDefined() {
		return regState{val: s.val}, fmt.Errorf("%w: write_en is high but in is undefined", primitive.ErrHeld)
	}
	return regState{val: in[regIn].Bits(), done: true}, nil
}

func (r *reg) Dims() []int { return []int{1} }

func (r *reg) DataWidth() int { return r.width }

func (r *reg) Load(st primitive.State, data []*big.Int) (primitive.State, error) {
	if len(data) != 1 {
		return nil, fmt.Errorf("register expects 1 value, got %d", len(data))
	}
	if !value.Fits(r.width, data[0]) {
		return nil, fmt.Errorf("%s does not fit in %d bits", data[0], r.width)
	}
	return regState{val: new(big.Int).Set(data[0])}, nil
}

func (r *reg) Dump(st primitive.State) []*big.Int {
	return []*big.Int{new(big.Int).Set(st.(regState).val)}
}
