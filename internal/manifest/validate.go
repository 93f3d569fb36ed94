package manifest

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/vk/funcgrid/internal/ctxlog"
)

// inputTypes is the view of the compiled handler registry validation needs.
// *catalog.Catalog satisfies it.
type inputTypes interface {
	HandlerInputType(name string) (reflect.Type, bool)
}

// Validate performs a strict parity check between a manifest's declared
// inputs and the compiled handler's input struct: every declared input must
// have a matching json-tagged field, every tagged field must be declared,
// and declared types must agree with the Go types.
func Validate(ctx context.Context, fns []*Function, handlers inputTypes) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, fn := range fns {
		inputType, ok := handlers.HandlerInputType(fn.Handler)
		if !ok {
			errs = append(errs, fmt.Sprintf("function '%s': handler '%s' is not compiled into this binary", fn.Name, fn.Handler))
			continue
		}

		if inputType == nil {
			if len(fn.Inputs) > 0 {
				errs = append(errs, fmt.Sprintf("function '%s': manifest declares inputs, but handler takes none", fn.Name))
			}
			continue
		}
		if len(fn.Inputs) == 0 {
			// Undeclared inputs are allowed; the check only runs on what
			// the manifest states.
			continue
		}

		declared := make(map[string]*Input, len(fn.Inputs))
		for _, in := range fn.Inputs {
			declared[in.Name] = in
		}

		goInputs := make(map[string]reflect.StructField)
		for i := 0; i < inputType.NumField(); i++ {
			field := inputType.Field(i)
			if !field.IsExported() {
				continue
			}
			tagName := strings.Split(field.Tag.Get("json"), ",")[0]
			if tagName != "" && tagName != "-" {
				goInputs[tagName] = field
			}
		}

		for name := range goInputs {
			if _, ok := declared[name]; !ok {
				errs = append(errs, fmt.Sprintf("function '%s': Go struct has field for input '%s' which is not declared in manifest", fn.Name, name))
			}
		}
		for name, in := range declared {
			goField, ok := goInputs[name]
			if !ok {
				errs = append(errs, fmt.Sprintf("function '%s': manifest declares input '%s' which is not found in Go struct", fn.Name, name))
				continue
			}

			declaredType, err := in.CtyType()
			if err != nil {
				errs = append(errs, fmt.Sprintf("function '%s': %v", fn.Name, err))
				continue
			}
			if declaredType.Equals(cty.DynamicPseudoType) {
				logger.Warn("Manifest input has 'type = any', which disables static type checking.", "function", fn.Name, "input", name)
				continue
			}

			goFieldType, err := gocty.ImpliedType(reflect.Zero(goField.Type).Interface())
			if err != nil {
				errs = append(errs, fmt.Sprintf("function '%s', input '%s': could not imply cty type from Go field type %s: %v", fn.Name, name, goField.Type, err))
				continue
			}
			if !declaredType.Equals(goFieldType) {
				errs = append(errs, fmt.Sprintf("function '%s', input '%s': type mismatch. Manifest requires '%s' but Go field '%s' provides '%s'",
					fn.Name, name, declaredType.FriendlyName(), goField.Name, goFieldType.FriendlyName()))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("manifest validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
