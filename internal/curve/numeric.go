package curve

import (
	"fmt"
	"math"
	"sort"

	"github.com/zclconf/go-cty/cty"
)

// components flattens a number or an object of numbers into a vector.
// Object attributes are visited in name order so that two values of the same
// type always line up.
func components(v cty.Value) ([]float64, error) {
	ty := v.Type()
	switch {
	case ty == cty.Number:
		f, _ := v.AsBigFloat().Float64()
		return []float64{f}, nil
	case ty.IsObjectType():
		names := attributeNames(ty)
		out := make([]float64, 0, len(names))
		for _, name := range names {
			attr := v.GetAttr(name)
			if attr.Type() != cty.Number {
				return nil, fmt.Errorf("attribute %q is %s, not a number", name, attr.Type().FriendlyName())
			}
			f, _ := attr.AsBigFloat().Float64()
			out = append(out, f)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%s values are not numeric", ty.FriendlyName())
}

// compose is the inverse of components, shaped after ty. Non-finite
// components are rejected.
func compose(ty cty.Type, comps []float64, round bool) (cty.Value, error) {
	for _, f := range comps {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return cty.NilVal, fmt.Errorf("result is not finite: %v", f)
		}
	}
	num := func(f float64) cty.Value {
		if round {
			f = math.Round(f)
		}
		return cty.NumberFloatVal(f)
	}
	if ty == cty.Number {
		return num(comps[0]), nil
	}
	names := attributeNames(ty)
	attrs := make(map[string]cty.Value, len(names))
	for i, name := range names {
		attrs[name] = num(comps[i])
	}
	return cty.ObjectVal(attrs), nil
}

func attributeNames(ty cty.Type) []string {
	names := make([]string, 0, len(ty.AttributeTypes()))
	for name := range ty.AttributeTypes() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lerp(a, b []float64, f float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] + (b[i]-a[i])*f
	}
	return out
}

func scale(a []float64, f float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] * f
	}
	return out
}

func add(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] + b[i]
	}
	return out
}
