// internal/portid/parser.go
package portid

import (
	"fmt"
	"regexp"
	"strings"
)

// segmentRegex parses a single segment, e.g. `r` or `incr[done]`.
var segmentRegex = regexp.MustCompile(`^([a-zA-Z_][a-zA-Z0-9_]*)(?:\[([a-z]+)\])?$`)

// Parse creates a new Address by parsing its canonical string representation.
func Parse(raw string) (*Address, error) {
	if raw == "" {
		return nil, fmt.Errorf("identifier cannot be empty")
	}

	segments := strings.Split(raw, ".")
	addr := &Address{}
	for i, segmentStr := range segments {
		if segmentStr == "" {
			return nil, fmt.Errorf("identifier path contains empty segment")
		}

		matches := segmentRegex.FindStringSubmatch(segmentStr)
		if matches == nil {
			return nil, fmt.Errorf("invalid path segment format: %q", segmentStr)
		}

		if hole := matches[2]; hole != "" {
			if i != len(segments)-1 {
				return nil, fmt.Errorf("hole %q is only allowed on the last segment", hole)
			}
			if hole != HoleGo && hole != HoleDone {
				return nil, fmt.Errorf("unknown hole %q: must be %q or %q", hole, HoleGo, HoleDone)
			}
			addr.Hole = hole
		}
		addr.Path = append(addr.Path, matches[1])
	}

	return addr, nil
}
