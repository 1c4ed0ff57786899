package core

import (
	"math/big"

	"github.com/specialistvlad/cyclesim/internal/primitive"
	"github.com/specialistvlad/cyclesim/internal/value"
)

// comb is a stateless primitive whose outputs are a function of its inputs.
// Any input that is not Defined makes every output Unknown.
type comb struct {
	sig primitive.Signature
	fn  func(args []*big.Int) []value.Value
}

func (c *comb) Signature() primitive.Signature { return c.sig }

func (c *comb) Init() primitive.State { return nil }

func (c *comb) Poke(_ primitive.State, in []value.Value) []value.Value {
	args := make([]*big.Int, len(in))
	for i, v := range in {
		if !v.IsDefined() {
			return make([]value.Value, len(c.sig.Outputs))
		}
		args[i] = v.Bits()
	}
	return c.fn(args)
}

func (c *comb) Tick(st primitive.State, _ []value.Value) (primitive.State, error) {
	return st, nil
}
