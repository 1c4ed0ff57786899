package eval

import (
	"github.com/specialistvlad/cyclesim/internal/model"
	"github.com/specialistvlad/cyclesim/internal/program"
	"github.com/specialistvlad/cyclesim/internal/value"
)

// evalGuard evaluates a guard in three-valued logic. The result is a 1-bit
// Defined value or Unknown. false dominates && and true dominates ||.
func evalGuard(g *program.Guard, vals Values) value.Value {
	if g == nil {
		return value.Bool(true)
	}
	switch g.Op {
	case program.GuardPort:
		return truth(vals[g.Port])
	case program.GuardNot:
		v := evalGuard(g.Left, vals)
		if !v.IsDefined() {
			return value.Unknown()
		}
		return value.Bool(!v.IsTrue())
	case program.GuardAnd:
		l, r := evalGuard(g.Left, vals), evalGuard(g.Right, vals)
		switch {
		case l.IsFalse() || r.IsFalse():
			return value.Bool(false)
		case l.IsTrue() && r.IsTrue():
			return value.Bool(true)
		}
		return value.Unknown()
	case program.GuardOr:
		l, r := evalGuard(g.Left, vals), evalGuard(g.Right, vals)
		switch {
		case l.IsTrue() || r.IsTrue():
			return value.Bool(true)
		case l.IsFalse() && r.IsFalse():
			return value.Bool(false)
		}
		return value.Unknown()
	case program.GuardCmp:
		a, b := vals.Operand(g.A), vals.Operand(g.B)
		if !a.IsDefined() || !b.IsDefined() {
			return value.Unknown()
		}
		return value.Bool(compare(g.Cmp, a.Bits().Cmp(b.Bits())))
	}
	return value.Unknown()
}

func truth(v value.Value) value.Value {
	if !v.IsDefined() {
		return value.Unknown()
	}
	return value.Bool(v.IsTrue())
}

func compare(op model.CmpOp, c int) bool {
	switch op {
	case model.CmpEq:
		return c == 0
	case model.CmpNeq:
		return c != 0
	case model.CmpLt:
		return c < 0
	case model.CmpGt:
		return c > 0
	case model.CmpLe:
		return c <= 0
	case model.CmpGe:
		return c >= 0
	}
	return false
}
