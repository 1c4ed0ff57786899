// Package value implements the three-point lattice carried on every port:
// Unknown below Defined bit vectors, Conflict on top.
package value

import (
	"fmt"
	"math/big"
)

// Kind identifies the lattice point of a Value.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindDefined
	KindConflict
)

// String returns a lowercase name for the kind.
func (k Kind) String() string {
	switch k {
	case KindUnknown:
		return "unknown"
	case KindDefined:
		return "defined"
	case KindConflict:
		return "conflict"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is an immutable lattice element. The zero Value is Unknown.
// The bits of a Defined value never exceed its width.
type Value struct {
	kind  Kind
	width int
	bits  *big.Int
}

var (
	zero = big.NewInt(0)
	one  = big.NewInt(1)
)

// Unknown returns the bottom element.
func Unknown() Value { return Value{} }

// Conflict returns the top element.
func Conflict() Value { return Value{kind: KindConflict} }

// New returns a Defined value. It returns an error when bits is negative or
// does not fit in width.
func New(width int, bits *big.Int) (Value, error) {
	if width <= 0 {
		return Value{}, fmt.Errorf("invalid width %d", width)
	}
	if !Fits(width, bits) {
		return Value{}, fmt.Errorf("%s does not fit in %d bits", bits, width)
	}
	return Value{kind: KindDefined, width: width, bits: new(big.Int).Set(bits)}, nil
}

// Truncate returns a Defined value holding the low width bits of bits.
// Negative inputs wrap in two's complement.
func Truncate(width int, bits *big.Int) Value {
	return Value{kind: KindDefined, width: width, bits: Mask(width, bits)}
}

// Uint returns a Defined value from a machine integer, truncated to width.
func Uint(width int, v uint64) Value {
	return Truncate(width, new(big.Int).SetUint64(v))
}

// Bool returns a Defined 1-bit value.
func Bool(b bool) Value {
	if b {
		return Value{kind: KindDefined, width: 1, bits: one}
	}
	return Value{kind: KindDefined, width: 1, bits: zero}
}

// Fits reports whether bits is a non-negative integer representable in width bits.
func Fits(width int, bits *big.Int) bool {
	return bits != nil && bits.Sign() >= 0 && bits.BitLen() <= width
}

// Mask returns a fresh integer holding the low width bits of v.
func Mask(width int, v *big.Int) *big.Int {
	m := new(big.Int).Lsh(one, uint(width))
	m.Sub(m, one)
	return m.And(m, v)
}

// Kind returns the lattice point.
func (v Value) Kind() Kind { return v.kind }

// IsUnknown reports whether v is the bottom element.
func (v Value) IsUnknown() bool { return v.kind == KindUnknown }

// IsDefined reports whether v carries bits.
func (v Value) IsDefined() bool { return v.kind == KindDefined }

// IsConflict reports whether v is the top element.
func (v Value) IsConflict() bool { return v.kind == KindConflict }

// Width returns the bit width of a Defined value and 0 otherwise.
func (v Value) Width() int { return v.width }

// Bits returns a copy of the bits of a Defined value, or nil.
func (v Value) Bits() *big.Int {
	if v.kind != KindDefined {
		return nil
	}
	return new(big.Int).Set(v.bits)
}

// Uint64 returns the bits as a machine integer. ok is false when v is not
// Defined or the bits overflow 64 bits.
func (v Value) Uint64() (n uint64, ok bool) {
	if v.kind != KindDefined || !v.bits.IsUint64() {
		return 0, false
	}
	return v.bits.Uint64(), true
}

// IsTrue reports whether v is Defined and non-zero.
func (v Value) IsTrue() bool {
	return v.kind == KindDefined && v.bits.Sign() != 0
}

// IsFalse reports whether v is Defined and zero.
func (v Value) IsFalse() bool {
	return v.kind == KindDefined && v.bits.Sign() == 0
}

// Equal reports lattice equality. Defined values compare width and bits.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	if v.kind != KindDefined {
		return true
	}
	return v.width == o.width && v.bits.Cmp(o.bits) == 0
}

// String renders v as "x", "conflict" or width'dvalue.
func (v Value) String() string {
	switch v.kind {
	case KindUnknown:
		return "x"
	case KindConflict:
		return "conflict"
	default:
		return fmt.Sprintf("%d'd%s", v.width, v.bits)
	}
}

// Merge combines two drivers of the same port.
func Merge(a, b Value) Value {
	switch {
	case a.kind == KindConflict || b.kind == KindConflict:
		return Conflict()
	case a.kind == KindUnknown:
		return b
	case b.kind == KindUnknown:
		return a
	case a.Equal(b):
		return a
	default:
		return Conflict()
	}
}
