// Package hclutil holds small helpers shared by the HCL front end.
package hclutil

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// FindUniqueBlock searches a slice of blocks for all blocks of a given type.
// It returns a diagnostic error if more than one block of that type is found.
// If no block is found, it returns nil.
func FindUniqueBlock(blocks hclsyntax.Blocks, name string) (*hclsyntax.Block, hcl.Diagnostics) {
	var found *hclsyntax.Block
	var diags hcl.Diagnostics

	for _, block := range blocks {
		if block.Type == name {
			if found != nil {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Duplicate \"" + name + "\" block",
					Detail:   "Only one \"" + name + "\" block is allowed.",
					Subject:  block.DefRange().Ptr(),
				})
			}
			found = block
		}
	}

	return found, diags
}

// OnlyBlocks reports an error for every attribute of body, for bodies that
// may only contain nested blocks.
func OnlyBlocks(body *hclsyntax.Body, owner string) hcl.Diagnostics {
	var diags hcl.Diagnostics
	for _, attr := range body.Attributes {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Unexpected attribute",
			Detail:   "A \"" + owner + "\" block only contains statements, found attribute \"" + attr.Name + "\".",
			Subject:  attr.NameRange.Ptr(),
		})
	}
	return diags
}
