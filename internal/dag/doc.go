// Package dag provides a small directed-graph type used for static analysis
// of programs: the port dependency graph that fixes the evaluation order, and
// the component instantiation graph that rules out recursive hierarchies.
//
// All orders produced by this package are deterministic. Ties are broken by
// the natural order of node keys, so two loads of the same program always
// evaluate ports in the same sequence.
package dag
