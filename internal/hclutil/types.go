package hclutil

import (
	"math/big"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// BigInt converts a cty number into a non-negative whole integer.
func BigInt(v cty.Value, subject hcl.Range) (*big.Int, hcl.Diagnostics) {
	invalid := func(detail string) hcl.Diagnostics {
		return hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid number",
			Detail:   detail,
			Subject:  subject.Ptr(),
		}}
	}
	if v.IsNull() || !v.IsKnown() || v.Type() != cty.Number {
		return nil, invalid("A whole, non-negative number is required.")
	}
	var n big.Int
	if err := gocty.FromCtyValue(v, &n); err != nil {
		return nil, invalid("A whole, non-negative number is required: " + err.Error())
	}
	if n.Sign() < 0 {
		return nil, invalid("Negative numbers are not allowed here.")
	}
	return &n, nil
}
