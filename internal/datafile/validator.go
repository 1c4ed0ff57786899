package datafile

import (
	"embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaFS embed.FS

// Validator checks raw JSON against the embedded schema.
type Validator struct {
	ctx    *cue.Context
	schema cue.Value
}

// NewValidator compiles the embedded schema.
func NewValidator() (*Validator, error) {
	ctx := cuecontext.New()

	schemaBytes, err := schemaFS.ReadFile("schema.cue")
	if err != nil {
		return nil, fmt.Errorf("loading embedded schema: %w", err)
	}

	schema := ctx.CompileBytes(schemaBytes)
	if schema.Err() != nil {
		return nil, fmt.Errorf("compiling schema: %w", schema.Err())
	}

	return &Validator{ctx: ctx, schema: schema}, nil
}

// ValidateJSON reports whether b is a well-formed data file.
func (v *Validator) ValidateJSON(b []byte) error {
	if err := v.check(b); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// Problems lists every schema violation in b, one message each.
func (v *Validator) Problems(b []byte) []string {
	err := v.check(b)
	if err == nil {
		return nil
	}
	var msgs []string
	for _, e := range errors.Errors(err) {
		msgs = append(msgs, e.Error())
	}
	return msgs
}

func (v *Validator) check(b []byte) error {
	dataValue := v.ctx.CompileBytes(b)
	if dataValue.Err() != nil {
		return dataValue.Err()
	}

	def := v.schema.LookupPath(cue.ParsePath("#Data"))
	if def.Err() != nil {
		return fmt.Errorf("looking up #Data definition: %w", def.Err())
	}

	return def.Unify(dataValue).Validate(cue.Concrete(true))
}
