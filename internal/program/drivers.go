package program

import (
	"fmt"

	"github.com/specialistvlad/cyclesim/internal/model"
)

// checkDrivers rejects two assignments of one set that drive the same port
// unless they always agree or can never both be enabled.
func checkDrivers(assigns []*model.Assignment) error {
	for i, a := range assigns {
		for _, b := range assigns[i+1:] {
			if a.Dst != b.Dst {
				continue
			}
			if sameSource(a.Src, b.Src) || disjoint(a.Guard, b.Guard) {
				continue
			}
			return fmt.Errorf("'%s' has multiple drivers that may be enabled together: %s and %s", a.Dst, a, b)
		}
	}
	return nil
}

func sameSource(a, b model.Atom) bool {
	switch {
	case a.Port != nil && b.Port != nil:
		return *a.Port == *b.Port
	case a.Lit != nil && b.Lit != nil:
		return a.Lit.Width == b.Lit.Width && a.Lit.Value.Cmp(b.Lit.Value) == 0
	}
	return false
}

// disjoint recognises the syntactic patterns `g` vs `!g` and
// `p == c1` vs `p == c2` with distinct constants.
func disjoint(a, b model.Guard) bool {
	if n, ok := a.(model.Not); ok && guardEqual(n.Inner, b) {
		return true
	}
	if n, ok := b.(model.Not); ok && guardEqual(n.Inner, a) {
		return true
	}
	ca, okA := a.(model.Compare)
	cb, okB := b.(model.Compare)
	if !okA || !okB || ca.Op != model.CmpEq || cb.Op != model.CmpEq {
		return false
	}
	pa, la := portAndLiteral(ca)
	pb, lb := portAndLiteral(cb)
	return pa != nil && pb != nil && *pa == *pb && la.Value.Cmp(lb.Value) != 0
}

// portAndLiteral splits `p == c` in either order.
func portAndLiteral(c model.Compare) (*model.PortRef, *model.Literal) {
	switch {
	case c.Left.Port != nil && c.Right.Lit != nil:
		return c.Left.Port, c.Right.Lit
	case c.Right.Port != nil && c.Left.Lit != nil:
		return c.Right.Port, c.Left.Lit
	}
	return nil, nil
}

func guardEqual(a, b model.Guard) bool {
	switch a := a.(type) {
	case nil, model.True:
		switch b.(type) {
		case nil, model.True:
			return true
		}
		return false
	case model.PortGuard:
		bb, ok := b.(model.PortGuard)
		return ok && a.Ref == bb.Ref
	case model.Not:
		bb, ok := b.(model.Not)
		return ok && guardEqual(a.Inner, bb.Inner)
	case model.And:
		bb, ok := b.(model.And)
		return ok && guardEqual(a.Left, bb.Left) && guardEqual(a.Right, bb.Right)
	case model.Or:
		bb, ok := b.(model.Or)
		return ok && guardEqual(a.Left, bb.Left) && guardEqual(a.Right, bb.Right)
	case model.Compare:
		bb, ok := b.(model.Compare)
		return ok && a.Op == bb.Op && sameSource(a.Left, bb.Left) && sameSource(a.Right, bb.Right)
	}
	return false
}
