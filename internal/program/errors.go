package program

import "fmt"

// LoadError reports why a program was rejected. Ident is the offending
// identifier as written in the component, or a qualified port name for
// errors found after elaboration.
type LoadError struct {
	Component string
	Ident     string
	Reason    string
}

func (e *LoadError) Error() string {
	if e.Component == "" {
		return fmt.Sprintf("'%s': %s", e.Ident, e.Reason)
	}
	return fmt.Sprintf("component '%s': '%s': %s", e.Component, e.Ident, e.Reason)
}

func loadErrorf(component, ident, format string, args ...any) *LoadError {
	return &LoadError{Component: component, Ident: ident, Reason: fmt.Sprintf(format, args...)}
}
