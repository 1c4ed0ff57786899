package registry

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/cyclesim/internal/primitive"
)

// validateSignature checks that port names are unique, widths are positive
// and combinational dependencies only mention declared ports.
func validateSignature(sig primitive.Signature) error {
	var errs []string
	seen := make(map[string]struct{})

	check := func(ports []primitive.PortSpec, dir primitive.Direction) {
		for _, p := range ports {
			if _, dup := seen[p.Name]; dup {
				errs = append(errs, fmt.Sprintf("duplicate port '%s'", p.Name))
			}
			seen[p.Name] = struct{}{}
			if p.Width <= 0 {
				errs = append(errs, fmt.Sprintf("port '%s' has non-positive width %d", p.Name, p.Width))
			}
			if p.Dir != dir {
				errs = append(errs, fmt.Sprintf("port '%s' is declared as %s but listed with the %ss", p.Name, p.Dir, dir))
			}
		}
	}
	check(sig.Inputs, primitive.Input)
	check(sig.Outputs, primitive.Output)

	for out, ins := range sig.CombDeps {
		if sig.OutputIndex(out) < 0 {
			errs = append(errs, fmt.Sprintf("combinational dependency declared for unknown output '%s'", out))
		}
		for _, in := range ins {
			if sig.InputIndex(in) < 0 {
				errs = append(errs, fmt.Sprintf("output '%s' depends on unknown input '%s'", out, in))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
