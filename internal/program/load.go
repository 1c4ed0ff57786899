package program

import (
	"context"
	"errors"

	"github.com/specialistvlad/cyclesim/internal/ctxlog"
	"github.com/specialistvlad/cyclesim/internal/dag"
	"github.com/specialistvlad/cyclesim/internal/model"
	"github.com/specialistvlad/cyclesim/internal/portid"
	"github.com/specialistvlad/cyclesim/internal/registry"
)

// DefaultEntry is the entry component used when none is given.
const DefaultEntry = "main"

// Load validates defs and elaborates the hierarchy rooted at entry. All
// static failures are returned together, each as a *LoadError.
func Load(ctx context.Context, defs *model.Definitions, reg *registry.Registry, entry string) (*Program, error) {
	logger := ctxlog.FromContext(ctx)
	if entry == "" {
		entry = DefaultEntry
	}
	logger.Debug("Program load started.", "components", len(defs.Components), "entry", entry)

	if _, ok := defs.Components[entry]; !ok {
		return nil, &LoadError{Ident: entry, Reason: "entry component not found"}
	}

	if err := checkRecursion(defs); err != nil {
		return nil, err
	}

	var errs []error
	scopes := make(map[string]*compScope, len(defs.Components))
	for _, name := range defs.Names() {
		s, scopeErrs := newCompScope(defs.Components[name], defs, reg)
		scopes[name] = s
		errs = append(errs, scopeErrs...)
	}
	for _, name := range defs.Names() {
		errs = append(errs, scopes[name].validate()...)
	}
	if len(errs) > 0 {
		logger.Debug("Program validation failed.", "errors", len(errs))
		return nil, errors.Join(errs...)
	}
	logger.Debug("Program validation passed.")

	b := newBuilder(scopes, reg)
	if _, err := b.instantiate(entry, NoInst, portid.New(entry)); err != nil {
		return nil, err
	}
	prog := b.prog
	prog.Entry = entry
	prog.NumControls = b.nextControl

	if err := prog.buildOrder(); err != nil {
		return nil, err
	}

	logger.Debug("Program loaded.",
		"instances", len(prog.Instances),
		"ports", len(prog.Ports),
		"cells", len(prog.Cells),
		"groups", len(prog.Groups),
		"assignments", len(prog.Assigns),
	)
	return prog, nil
}

// checkRecursion rejects components that instantiate themselves directly or
// through other components.
func checkRecursion(defs *model.Definitions) error {
	g := dag.New[string]()
	for _, name := range defs.Names() {
		g.AddNode(name)
	}
	for _, name := range defs.Names() {
		for _, c := range defs.Components[name].Cells {
			if _, ok := defs.Components[c.Prototype]; !ok {
				continue
			}
			if err := g.AddEdge(c.Prototype, name); err != nil {
				return recursionError(err)
			}
		}
	}
	if err := g.DetectCycles(); err != nil {
		return recursionError(err)
	}
	return nil
}

func recursionError(err error) error {
	var ce *dag.CycleError[string]
	if errors.As(err, &ce) {
		return &LoadError{Component: ce.Node, Ident: ce.Node, Reason: "recursive instantiation"}
	}
	return err
}
