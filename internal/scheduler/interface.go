// Package scheduler walks the control trees of a program and decides, cycle
// by cycle, which groups are active.
//
// # Why Scheduler Exists
//
// Groups never run on their own. The control tree of each component decides
// when a group is enabled, in what order, and how often. The scheduler keeps
// the runtime position inside every control tree and turns it into an
// explicit active set that the evaluator can settle.
//
// This provides several key benefits:
//   - **Single Source of Activity:** The evaluator never inspects control; it only sees the active set
//   - **Zero-Time Transitions:** Finished statements hand over within the same cycle
//   - **Deterministic Progress:** Children of a par are always visited in declaration order
//
// # How It Works
//
// The driver calls the scheduler twice per cycle:
//  1. Schedule advances every statement that finished during the previous
//     cycle and collects the groups, running instances and boundary drives of
//     the statements still in progress.
//  2. Observe receives the settled values and marks every running enable
//     whose group's done hole reads 1 as finished.
//
// Conditions of if and while, and the arguments of invoke, are settled
// against the enclosing invoke scope: the caller's instances and latched
// argument drives. Conditions add their `with` group. Sibling groups and
// write-backs are never visible, so the order of par children does not
// change what is sampled.
//
// # Statement Timing
//
//   - **enable:** active from the cycle it starts until the cycle its done reads 1
//   - **seq:** the next child starts in the cycle after the previous one finished
//   - **par:** finishes once every child has finished
//   - **if:** samples its condition once, then behaves like the chosen branch
//   - **while:** samples its condition at most once per cycle
//   - **invoke:** latches its arguments, runs the callee, then writes outputs back for one cycle
//   - **empty:** finishes immediately
package scheduler

import "fmt"

// ControlError reports a control statement that cannot proceed.
type ControlError struct {
	Node   string
	Reason string
}

func (e *ControlError) Error() string {
	return fmt.Sprintf("control '%s': %s", e.Node, e.Reason)
}
