package eval

import (
	"fmt"

	"github.com/specialistvlad/cyclesim/internal/value"
)

// ConflictError reports two enabled drivers disagreeing on one port.
type ConflictError struct {
	Port    string
	Sources [2]string
	Values  [2]value.Value
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict on '%s': '%s' drives %s while '%s' drives %s",
		e.Port, e.Sources[0], e.Values[0], e.Sources[1], e.Values[1])
}
