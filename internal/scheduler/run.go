package scheduler

import (
	"github.com/specialistvlad/cyclesim/internal/program"
	"github.com/specialistvlad/cyclesim/internal/value"
)

// invokePhase tracks the progress of an invoke statement.
type invokePhase uint8

const (
	invokeEnter invokePhase = iota
	invokeRunning
	invokeWriteback
)

// run is the runtime state of one control statement.
type run struct {
	ctl      *program.Control
	finished bool

	// seq
	idx int
	cur *run

	// par
	kids []*run

	// if, while
	branch *run

	// enable
	active bool

	// invoke
	phase   invokePhase
	sub     *run
	inVals  []value.Value
	outVals []value.Value
	wbCycle int
}

func newRun(ctl *program.Control) *run {
	return &run{ctl: ctl}
}
