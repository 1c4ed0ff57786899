package update

import "fmt"

// ContractError reports a primitive that rejected its inputs at a clock edge.
type ContractError struct {
	Cell string
	Err  error
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("cell '%s': %v", e.Cell, e.Err)
}

func (e *ContractError) Unwrap() error {
	return e.Err
}
