// Package program validates model definitions and elaborates them into the
// resolved form the simulator runs.
//
// Load is the only ingestion point of the simulator. It checks every
// reference, width, destination and control statement of every component,
// rejects recursive hierarchies, then instantiates the hierarchy from the
// entry component into flat arenas of ports, cells, groups and assignments
// addressed by dense integer IDs. Finally it builds the static dependency
// graph over ports and fixes the topological order in which the evaluator
// visits them. A combinational cycle is a load error.
//
// Nothing in a Program changes after Load returns. All run-time state (port
// values, primitive states, control progress) lives in the packages that
// execute it.
package program
