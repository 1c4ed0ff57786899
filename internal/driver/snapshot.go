package driver

import (
	"slices"

	"github.com/specialistvlad/cyclesim/internal/value"
)

// Snapshot is the observable state after a cycle.
type Snapshot struct {
	// Cycle is the number of completed cycles.
	Cycle int
	// Active holds the names of the groups active in the last cycle, sorted.
	Active []string
	// Ports maps every port name to its settled value.
	Ports map[string]value.Value
}

// Snapshot returns the state after the last completed cycle.
func (d *Driver) Snapshot() Snapshot {
	s := Snapshot{
		Cycle:  d.cycle,
		Active: make([]string, 0, len(d.active)),
		Ports:  make(map[string]value.Value, len(d.prog.Ports)),
	}
	for _, id := range d.active {
		s.Active = append(s.Active, d.prog.Groups[id].Name)
	}
	slices.Sort(s.Active)
	for i := range d.prog.Ports {
		v := value.Unknown()
		if d.values != nil {
			v = d.values[i]
		}
		s.Ports[d.prog.Ports[i].Name] = v
	}
	return s
}

// GroupActive reports whether the named group was active in the snapshot.
func (s Snapshot) GroupActive(name string) bool {
	_, ok := slices.BinarySearch(s.Active, name)
	return ok
}
