// Package driver runs a loaded program one clock cycle at a time.
//
// A step schedules the control tree, settles the ports of the resulting
// active set, lets the scheduler observe finished groups and finally ticks
// every stateful cell. The run completes when the entry component's control
// completes; that final scheduling pass does not count as a cycle.
package driver
