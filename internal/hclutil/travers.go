package hclutil

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclwrite"
)

// TraversalKey generates a stable, canonical string representation for an hcl.Traversal,
// suitable for use as a map key or in messages.
func TraversalKey(t hcl.Traversal) string {
	// e.g., r.out
	return string(hclwrite.TokensForTraversal(t).Bytes())
}

// SplitRef splits a traversal of the form `name` or `cell.port` into its
// parts. ok is false for any other shape.
func SplitRef(t hcl.Traversal) (cell, port string, ok bool) {
	switch len(t) {
	case 1:
		return "", t.RootName(), true
	case 2:
		attr, isAttr := t[1].(hcl.TraverseAttr)
		if !isAttr {
			return "", "", false
		}
		return t.RootName(), attr.Name, true
	}
	return "", "", false
}
