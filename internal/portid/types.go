// internal/portid/types.go
package portid

// Hole names of a group's go/done handshake.
const (
	HoleGo   = "go"
	HoleDone = "done"
)

// Address is the structured representation of a qualified name. Path holds
// the instance path followed by the cell (or group) and, for ports, the port
// name. Hole is non-empty only for group holes.
type Address struct {
	Path []string
	Hole string
}

// New creates an address from its path segments.
func New(path ...string) *Address {
	return &Address{Path: append([]string(nil), path...)}
}

// NewHole creates the address of a group hole.
func NewHole(hole string, path ...string) *Address {
	return &Address{Path: append([]string(nil), path...), Hole: hole}
}

// IsHole reports whether the address names a group hole.
func (a *Address) IsHole() bool {
	return a != nil && a.Hole != ""
}
