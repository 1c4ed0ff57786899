package eval

import (
	"testing"

	"github.com/specialistvlad/cyclesim/internal/model"
	"github.com/specialistvlad/cyclesim/internal/program"
	"github.com/specialistvlad/cyclesim/internal/value"
	"github.com/stretchr/testify/assert"
)

func TestEvalGuard(t *testing.T) {
	// Port 0 is 1, port 1 is 0, port 2 is unknown, port 3 is an 8-bit 5.
	vals := Values{value.Bool(true), value.Bool(false), value.Unknown(), value.Uint(8, 5)}
	hi := &program.Guard{Op: program.GuardPort, Port: 0}
	lo := &program.Guard{Op: program.GuardPort, Port: 1}
	x := &program.Guard{Op: program.GuardPort, Port: 2}
	cmp := func(op model.CmpOp, lit uint64) *program.Guard {
		return &program.Guard{
			Op:  program.GuardCmp,
			Cmp: op,
			A:   program.Operand{Port: 3},
			B:   program.Operand{Port: program.NoPort, Lit: value.Uint(8, lit)},
		}
	}

	testCases := []struct {
		name     string
		guard    *program.Guard
		expected value.Value
	}{
		{name: "nil is true", guard: nil, expected: value.Bool(true)},
		{name: "port high", guard: hi, expected: value.Bool(true)},
		{name: "port unknown", guard: x, expected: value.Unknown()},
		{name: "not low", guard: &program.Guard{Op: program.GuardNot, Left: lo}, expected: value.Bool(true)},
		{name: "not unknown", guard: &program.Guard{Op: program.GuardNot, Left: x}, expected: value.Unknown()},
		{name: "false dominates and", guard: &program.Guard{Op: program.GuardAnd, Left: x, Right: lo}, expected: value.Bool(false)},
		{name: "and with unknown", guard: &program.Guard{Op: program.GuardAnd, Left: x, Right: hi}, expected: value.Unknown()},
		{name: "true dominates or", guard: &program.Guard{Op: program.GuardOr, Left: x, Right: hi}, expected: value.Bool(true)},
		{name: "or with unknown", guard: &program.Guard{Op: program.GuardOr, Left: lo, Right: x}, expected: value.Unknown()},
		{name: "or of lows", guard: &program.Guard{Op: program.GuardOr, Left: lo, Right: lo}, expected: value.Bool(false)},
		{name: "eq", guard: cmp(model.CmpEq, 5), expected: value.Bool(true)},
		{name: "neq", guard: cmp(model.CmpNeq, 5), expected: value.Bool(false)},
		{name: "lt", guard: cmp(model.CmpLt, 6), expected: value.Bool(true)},
		{name: "ge", guard: cmp(model.CmpGe, 6), expected: value.Bool(false)},
		{name: "compare with unknown", guard: &program.Guard{
			Op: program.GuardCmp, Cmp: model.CmpEq,
			A: program.Operand{Port: 2}, B: program.Operand{Port: 3},
		}, expected: value.Unknown()},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := evalGuard(tc.guard, vals)
			assert.True(t, tc.expected.Equal(got), "expected %s, got %s", tc.expected, got)
		})
	}
}
