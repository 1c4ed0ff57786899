package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/open-policy-agent/opa/rego"
	"github.com/specialistvlad/cyclesim/internal/ctxlog"
	"github.com/specialistvlad/cyclesim/internal/driver"
)

// DefaultQuery is evaluated when no query is given.
const DefaultQuery = "data.cyclesim.watch.stop"

// Policy is a prepared rego query over cycle snapshots.
type Policy struct {
	name  string
	query rego.PreparedEvalQuery
}

// Compile parses module and prepares query against it. name is used in
// error messages and logs.
func Compile(ctx context.Context, name, module, query string) (*Policy, error) {
	if query == "" {
		query = DefaultQuery
	}
	q, err := rego.New(
		rego.Module(name, module),
		rego.Query(query),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("preparing watch policy %s: %w", name, err)
	}
	return &Policy{name: name, query: q}, nil
}

// Load reads a policy from a .rego file and compiles it.
func Load(ctx context.Context, path, query string) (*Policy, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Compile(ctx, path, string(content), query)
}

// Eval reports whether the policy stops the run at s.
func (p *Policy) Eval(ctx context.Context, s driver.Snapshot) (bool, error) {
	rs, err := p.query.Eval(ctx, rego.EvalInput(input(s)))
	if err != nil {
		return false, fmt.Errorf("evaluating watch policy %s: %w", p.name, err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return false, nil
	}
	hit, ok := rs[0].Expressions[0].Value.(bool)
	if !ok {
		return false, fmt.Errorf("watch policy %s returned %T, want a boolean", p.name, rs[0].Expressions[0].Value)
	}
	return hit, nil
}

// Predicate adapts the policy for Driver.RunUntil. Hits are logged.
func (p *Policy) Predicate(ctx context.Context) Predicate {
	return func(s driver.Snapshot) (bool, error) {
		hit, err := p.Eval(ctx, s)
		if hit {
			ctxlog.FromContext(ctx).Info("Watchpoint hit.", "policy", p.name, "cycle", s.Cycle)
		}
		return hit, err
	}
}

func input(s driver.Snapshot) map[string]any {
	ports := make(map[string]any, len(s.Ports))
	for name, v := range s.Ports {
		switch {
		case v.IsDefined():
			ports[name] = json.Number(v.Bits().String())
		case v.IsConflict():
			ports[name] = "conflict"
		default:
			ports[name] = nil
		}
	}
	active := make([]any, len(s.Active))
	for i, g := range s.Active {
		active[i] = g
	}
	return map[string]any{
		"cycle":  s.Cycle,
		"active": active,
		"ports":  ports,
	}
}
