package hcl

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// toFloat converts a number, a numeric string or a bool into a float64.
// Booleans become 1 and 0 so a checkbox default can be written naturally.
func toFloat(val cty.Value) (float64, error) {
	if val.IsNull() {
		return 0, fmt.Errorf("value must not be null")
	}
	if !val.IsKnown() {
		return 0, fmt.Errorf("value must be known")
	}
	if val.Type().Equals(cty.Bool) {
		if val.True() {
			return 1, nil
		}
		return 0, nil
	}

	converted, err := convert.Convert(val, cty.Number)
	if err != nil {
		return 0, fmt.Errorf("cannot convert %s to number: %w", val.Type().FriendlyName(), err)
	}
	var f float64
	if err := gocty.FromCtyValue(converted, &f); err != nil {
		return 0, err
	}
	return f, nil
}

// optionalFloat decodes an optional attribute. A missing or null attribute
// yields nil.
func optionalFloat(val *cty.Value) (*float64, error) {
	if val == nil || val.IsNull() {
		return nil, nil
	}
	f, err := toFloat(*val)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// floatOr decodes an optional attribute, falling back to def.
func floatOr(val *cty.Value, def float64) (float64, error) {
	f, err := optionalFloat(val)
	if err != nil || f == nil {
		return def, err
	}
	return *f, nil
}
