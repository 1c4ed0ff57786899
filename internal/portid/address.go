// internal/portid/address.go
package portid

import (
	"slices"
	"strings"
)

// String serializes the Address into its canonical string representation.
func (a *Address) String() string {
	if a == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(a.Path, "."))
	if a.Hole != "" {
		sb.WriteRune('[')
		sb.WriteString(a.Hole)
		sb.WriteRune(']')
	}
	return sb.String()
}

// Equal checks for deep equality between two Address pointers.
func (a *Address) Equal(other *Address) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.Hole == other.Hole && slices.Equal(a.Path, other.Path)
}

// Child returns a new address with name appended to the path. The receiver
// must not be a hole.
func (a *Address) Child(name string) *Address {
	return New(append(slices.Clone(a.Path), name)...)
}

// WithHole returns the address of a hole on the group named by a.
func (a *Address) WithHole(hole string) *Address {
	return NewHole(hole, a.Path...)
}

// Parent returns the address without its last segment, or nil for a
// single-segment address.
func (a *Address) Parent() *Address {
	if a == nil || len(a.Path) < 2 {
		return nil
	}
	return New(a.Path[:len(a.Path)-1]...)
}

// Name returns the last path segment.
func (a *Address) Name() string {
	if a == nil || len(a.Path) == 0 {
		return ""
	}
	return a.Path[len(a.Path)-1]
}

// Rel returns the address as a string relative to the given root segment,
// e.g. "main.sub.mem" relative to "main" is "sub.mem".
func (a *Address) Rel(root string) string {
	s := a.String()
	if rest, ok := strings.CutPrefix(s, root+"."); ok {
		return rest
	}
	return s
}
