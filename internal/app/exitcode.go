package app

import (
	"errors"

	"github.com/specialistvlad/cyclesim/internal/driver"
	"github.com/specialistvlad/cyclesim/internal/eval"
	"github.com/specialistvlad/cyclesim/internal/scheduler"
	"github.com/specialistvlad/cyclesim/internal/update"
)

// ErrLoad marks failures before the first cycle: program files, data
// files and break policies.
var ErrLoad = errors.New("load failed")

// Process exit codes by error class.
const (
	ExitFailure    = 1
	ExitUsage      = 2
	ExitLoad       = 3
	ExitSimulation = 4
	ExitCycleLimit = 5
)

// ExitCode maps an error returned by Run to a process exit code.
func ExitCode(err error) int {
	var (
		conflict *eval.ConflictError
		control  *scheduler.ControlError
		contract *update.ContractError
	)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrLoad):
		return ExitLoad
	case errors.As(err, &conflict), errors.As(err, &control), errors.As(err, &contract):
		return ExitSimulation
	case errors.Is(err, driver.ErrCycleLimit):
		return ExitCycleLimit
	default:
		return ExitFailure
	}
}
