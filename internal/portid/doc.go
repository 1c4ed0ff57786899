// internal/portid/doc.go

/*
Package portid provides a structured representation for the instance-qualified
names of ports, cells and group holes within an elaborated program.

The format is a dot-separated sequence of identifiers starting at the entry
component, e.g. `main.sub.r.out`. A group hole is written with the hole name
in brackets on the last segment, e.g. `main.incr[done]`.

This package centralizes all formatting and parsing of these names, so that
the loader, the driver and external tooling agree on one spelling.
*/
package portid
