// Package core provides the combinational primitives of the standard library.
package core

import (
	"fmt"
	"math/big"

	"github.com/specialistvlad/cyclesim/internal/primitive"
	"github.com/specialistvlad/cyclesim/internal/registry"
	"github.com/specialistvlad/cyclesim/internal/value"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers every combinational primitive with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterPrimitive("std_const", newConst)
	r.RegisterPrimitive("std_wire", newWire)
	r.RegisterPrimitive("std_not", newNot)
	r.RegisterPrimitive("std_slice", newSlice)
	r.RegisterPrimitive("std_pad", newPad)

	for name, fn := range arith {
		r.RegisterPrimitive(name, binary(fn))
	}
	for name, fn := range compare {
		r.RegisterPrimitive(name, comparator(fn))
	}
}

var arith = map[string]func(z, a, b *big.Int, width int) *big.Int{
	"std_add": func(z, a, b *big.Int, _ int) *big.Int { return z.Add(a, b) },
	"std_sub": func(z, a, b *big.Int, _ int) *big.Int { return z.Sub(a, b) },
	"std_and": func(z, a, b *big.Int, _ int) *big.Int { return z.And(a, b) },
	"std_or":  func(z, a, b *big.Int, _ int) *big.Int { return z.Or(a, b) },
	"std_xor": func(z, a, b *big.Int, _ int) *big.Int { return z.Xor(a, b) },
	"std_lsh": func(z, a, b *big.Int, width int) *big.Int {
		if !b.IsInt64() || b.Int64() >= int64(width) {
			return z.SetInt64(0)
		}
		return z.Lsh(a, uint(b.Int64()))
	},
	"std_rsh": func(z, a, b *big.Int, width int) *big.Int {
		if !b.IsInt64() || b.Int64() >= int64(width) {
			return z.SetInt64(0)
		}
		return z.Rsh(a, uint(b.Int64()))
	},
}

var compare = map[string]func(c int) bool{
	"std_lt":  func(c int) bool { return c < 0 },
	"std_gt":  func(c int) bool { return c > 0 },
	"std_eq":  func(c int) bool { return c == 0 },
	"std_neq": func(c int) bool { return c != 0 },
	"std_le":  func(c int) bool { return c <= 0 },
	"std_ge":  func(c int) bool { return c >= 0 },
}

func in(name string, width int) primitive.PortSpec {
	return primitive.PortSpec{Name: name, Dir: primitive.Input, Width: width}
}

func out(name string, width int) primitive.PortSpec {
	return primitive.PortSpec{Name: name, Dir: primitive.Output, Width: width}
}

func binary(fn func(z, a, b *big.Int, width int) *big.Int) primitive.Factory {
	return func(params primitive.Params) (primitive.Primitive, error) {
		width, err := singleWidth(params)
		if err != nil {
			return nil, err
		}
		return &comb{
			sig: primitive.Signature{
				Inputs:   []primitive.PortSpec{in("left", width), in("right", width)},
				Outputs:  []primitive.PortSpec{out("out", width)},
				CombDeps: map[string][]string{"out": {"left", "right"}},
			},
			fn: func(args []*big.Int) []value.Value {
				return []value.Value{value.Truncate(width, fn(new(big.Int), args[0], args[1], width))}
			},
		}, nil
	}
}

func comparator(fn func(c int) bool) primitive.Factory {
	return func(params primitive.Params) (primitive.Primitive, error) {
		width, err := singleWidth(params)
		if err != nil {
			return nil, err
		}
		return &comb{
			sig: primitive.Signature{
				Inputs:   []primitive.PortSpec{in("left", width), in("right", width)},
				Outputs:  []primitive.PortSpec{out("out", 1)},
				CombDeps: map[string][]string{"out": {"left", "right"}},
			},
			fn: func(args []*big.Int) []value.Value {
				return []value.Value{value.Bool(fn(args[0].Cmp(args[1])))}
			},
		}, nil
	}
}

func newConst(params primitive.Params) (primitive.Primitive, error) {
	if err := params.Expect(2); err != nil {
		return nil, err
	}
	width, err := params.Int(0)
	if err != nil {
		return nil, err
	}
	v, err := value.New(width, params[1])
	if err != nil {
		return nil, fmt.Errorf("constant value: %w", err)
	}
	return &comb{
		sig: primitive.Signature{Outputs: []primitive.PortSpec{out("out", width)}},
		fn:  func([]*big.Int) []value.Value { return []value.Value{v} },
	}, nil
}

func newWire(params primitive.Params) (primitive.Primitive, error) {
	width, err := singleWidth(params)
	if err != nil {
		return nil, err
	}
	return unary(width, width, func(a *big.Int) value.Value { return value.Truncate(width, a) }), nil
}

func newNot(params primitive.Params) (primitive.Primitive, error) {
	width, err := singleWidth(params)
	if err != nil {
		return nil, err
	}
	return unary(width, width, func(a *big.Int) value.Value {
		return value.Truncate(width, new(big.Int).Not(a))
	}), nil
}

func newSlice(params primitive.Params) (primitive.Primitive, error) {
	inW, outW, err := twoWidths(params)
	if err != nil {
		return nil, err
	}
	if outW > inW {
		return nil, fmt.Errorf("slice output width %d exceeds input width %d", outW, inW)
	}
	return unary(inW, outW, func(a *big.Int) value.Value { return value.Truncate(outW, a) }), nil
}

func newPad(params primitive.Params) (primitive.Primitive, error) {
	inW, outW, err := twoWidths(params)
	if err != nil {
		return nil, err
	}
	if outW < inW {
		return nil, fmt.Errorf("pad output width %d is narrower than input width %d", outW, inW)
	}
	return unary(inW, outW, func(a *big.Int) value.Value { return value.Truncate(outW, a) }), nil
}

func unary(inW, outW int, fn func(a *big.Int) value.Value) *comb {
	return &comb{
		sig: primitive.Signature{
			Inputs:   []primitive.PortSpec{in("in", inW)},
			Outputs:  []primitive.PortSpec{out("out", outW)},
			CombDeps: map[string][]string{"out": {"in"}},
		},
		fn: func(args []*big.Int) []value.Value { return []value.Value{fn(args[0])} },
	}
}

func singleWidth(params primitive.Params) (int, error) {
	if err := params.Expect(1); err != nil {
		return 0, err
	}
	return params.Int(0)
}

func twoWidths(params primitive.Params) (int, int, error) {
	if err := params.Expect(2); err != nil {
		return 0, 0, err
	}
	a, err := params.Int(0)
	if err != nil {
		return 0, 0, err
	}
	b, err := params.Int(1)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}
