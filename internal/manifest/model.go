// Package manifest parses function manifests: the HCL files that publish
// compiled handlers under function names. Manifests are what a scan path or
// a deployable archive contains; the binary carries the handlers, manifests
// decide which of them are bound and under what names.
package manifest

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// Function is one `function "name" { ... }` block.
type Function struct {
	Name              string   `hcl:"name,label"`
	Handler           string   `hcl:"handler"`
	Description       string   `hcl:"description,optional"`
	InputContentType  string   `hcl:"input_content_type,optional"`
	OutputContentType string   `hcl:"output_content_type,optional"`
	Inputs            []*Input `hcl:"input,block"`
}

// Input declares one field of the handler's input struct, for validation
// against the compiled Go type.
type Input struct {
	Name        string `hcl:"name,label"`
	Type        string `hcl:"type,optional"`
	Description string `hcl:"description,optional"`
}

// CtyType resolves the declared type keyword. An absent type means "any",
// which disables static checking for that input.
func (i *Input) CtyType() (cty.Type, error) {
	switch i.Type {
	case "", "any":
		return cty.DynamicPseudoType, nil
	case "string":
		return cty.String, nil
	case "number":
		return cty.Number, nil
	case "bool":
		return cty.Bool, nil
	}
	return cty.NilType, fmt.Errorf("input %q: unknown type keyword %q", i.Name, i.Type)
}
