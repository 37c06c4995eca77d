// FILE: lixenwraith/hiconfig/hcl.go
package hiconfig

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// decodeHCL parses an HCL document into a nested map. Blocks become nested
// maps keyed by their type and then by each label:
//
//	car "front_tire" { radius = 30 }  ->  {"car": {"front_tire": {"radius": 30}}}
//
// Expressions are evaluated without variables or functions.
func decodeHCL(data []byte, filename string) (map[string]any, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL: %w", diags)
	}

	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("unexpected HCL body type %T", file.Body)
	}
	out := make(map[string]any)
	if err := hclBodyToMap(body, out); err != nil {
		return nil, err
	}
	return out, nil
}

func hclBodyToMap(body *hclsyntax.Body, out map[string]any) error {
	for name, attr := range body.Attributes {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return fmt.Errorf("attribute %q: %w", name, diags)
		}
		native, err := ctyToNative(val)
		if err != nil {
			return fmt.Errorf("attribute %q: %w", name, err)
		}
		out[name] = native
	}

	for _, block := range body.Blocks {
		target := out
		for _, segment := range append([]string{block.Type}, block.Labels...) {
			next, ok := target[segment].(map[string]any)
			if !ok {
				if _, exists := target[segment]; exists {
					return fmt.Errorf("block %q collides with attribute %q", block.Type, segment)
				}
				next = make(map[string]any)
				target[segment] = next
			}
			target = next
		}
		if err := hclBodyToMap(block.Body, target); err != nil {
			return fmt.Errorf("block %q: %w", block.Type, err)
		}
	}
	return nil
}

// ctyToNative recursively converts a cty.Value to its most natural Go counterpart.
// Whole numbers become int64, other numbers float64.
func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Number:
		if v.AsBigFloat().IsInt() {
			var i int64
			if err := gocty.FromCtyValue(v, &i); err == nil {
				return i, nil
			}
		}
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, fmt.Errorf("could not convert number to float64: %w", err)
		}
		return f, nil

	case ty == cty.Bool:
		return v.True(), nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		slice := make([]any, 0, v.LengthInt())
		it := v.ElementIterator()
		for it.Next() {
			_, elem := it.Element()
			native, err := ctyToNative(elem)
			if err != nil {
				return nil, err
			}
			slice = append(slice, native)
		}
		return slice, nil

	case ty.IsObjectType() || ty.IsMapType():
		m := make(map[string]any)
		it := v.ElementIterator()
		for it.Next() {
			key, elem := it.Element()
			native, err := ctyToNative(elem)
			if err != nil {
				return nil, fmt.Errorf("in attribute '%s': %w", key.AsString(), err)
			}
			m[key.AsString()] = native
		}
		return m, nil
	}

	return nil, fmt.Errorf("unsupported HCL value type: %s", ty.FriendlyName())
}
