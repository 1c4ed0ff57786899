package watch

import (
	"fmt"

	"github.com/specialistvlad/cyclesim/internal/driver"
	"github.com/specialistvlad/cyclesim/internal/value"
)

// Predicate is a stop condition over the state after a cycle.
type Predicate func(driver.Snapshot) (bool, error)

// GroupActive stops once the named group was active in a cycle.
func GroupActive(group string) Predicate {
	return func(s driver.Snapshot) (bool, error) {
		return s.GroupActive(group), nil
	}
}

// PortEquals stops once the named port settles to v.
func PortEquals(port string, v value.Value) Predicate {
	return func(s driver.Snapshot) (bool, error) {
		got, ok := s.Ports[port]
		if !ok {
			return false, fmt.Errorf("unknown port '%s'", port)
		}
		return got.Equal(v), nil
	}
}

// Any stops once one of preds does. Errors are returned as they occur.
func Any(preds ...Predicate) Predicate {
	return func(s driver.Snapshot) (bool, error) {
		for _, p := range preds {
			hit, err := p(s)
			if err != nil || hit {
				return hit, err
			}
		}
		return false, nil
	}
}
