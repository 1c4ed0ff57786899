// Package eval computes the combinational fixpoint of one cycle.
//
// Given the explicit set of active groups, running component instances and
// boundary drives, Settle visits every port once in the program's static
// topological order. Primitive outputs come from Poke, group go holes from
// activity and done, and every other port from the lattice merge of its
// enabled drivers. Two disagreeing drivers are a fatal *ConflictError.
// Ports of instances that are not running stay Unknown.
package eval
