// Package registry provides the central "glue" for the primitive library.
//
// The Registry maps the prototype names used in program files (e.g.
// "std_reg") to the compiled Go factories that build primitives. Modules
// under modules/ register their factories at startup through Module.
//
// Every primitive the registry hands out has its signature checked first, so
// that a malformed primitive is reported as a contract violation at load time
// instead of surfacing as a confusing evaluation error mid-run.
package registry
