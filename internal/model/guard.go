// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import "fmt"

// Guard is a side-effect-free boolean expression over ports and literals.
type Guard interface {
	isGuard()
}

// CmpOp is an unsigned comparison operator.
type CmpOp uint8

const (
	CmpEq CmpOp = iota
	CmpNeq
	CmpLt
	CmpGt
	CmpLe
	CmpGe
)

var cmpOpNames = [...]string{"==", "!=", "<", ">", "<=", ">="}

// String returns the operator as written in source.
func (op CmpOp) String() string {
	if int(op) < len(cmpOpNames) {
		return cmpOpNames[op]
	}
	return fmt.Sprintf("cmp(%d)", uint8(op))
}

type (
	// True always holds.
	True struct{}
	// PortGuard holds when a 1-bit port reads 1.
	PortGuard struct{ Ref PortRef }
	// Not negates its operand.
	Not struct{ Inner Guard }
	// And is a conjunction.
	And struct{ Left, Right Guard }
	// Or is a disjunction.
	Or struct{ Left, Right Guard }
	// Compare compares two atoms of equal width.
	Compare struct {
		Op          CmpOp
		Left, Right Atom
	}
)

func (True) isGuard()      {}
func (PortGuard) isGuard() {}
func (Not) isGuard()       {}
func (And) isGuard()       {}
func (Or) isGuard()        {}
func (Compare) isGuard()   {}

// GuardString renders a guard in source syntax with explicit parentheses.
func GuardString(g Guard) string {
	switch g := g.(type) {
	case nil, True:
		return "true"
	case PortGuard:
		return g.Ref.String()
	case Not:
		return "!" + GuardString(g.Inner)
	case And:
		return "(" + GuardString(g.Left) + " && " + GuardString(g.Right) + ")"
	case Or:
		return "(" + GuardString(g.Left) + " || " + GuardString(g.Right) + ")"
	case Compare:
		return g.Left.String() + " " + g.Op.String() + " " + g.Right.String()
	default:
		return fmt.Sprintf("%T", g)
	}
}
