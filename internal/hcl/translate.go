// This file translates the gohcl structs of package schema into the
// format-agnostic config model.

package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/paramgrid/internal/config"
	"github.com/vk/paramgrid/internal/param"
	"github.com/vk/paramgrid/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

// layoutContext resolves the layout keywords allowed in page children.
var layoutContext = &hcl.EvalContext{
	Variables: map[string]cty.Value{
		"skip_row":    cty.ObjectVal(map[string]cty.Value{"kind": cty.StringVal(param.EntrySkipRow.String())}),
		"skip_column": cty.ObjectVal(map[string]cty.Value{"kind": cty.StringVal(param.EntrySkipColumn.String())}),
	},
}

func translateFile(file string, root *schema.File) (*config.Model, error) {
	m := &config.Model{PageOrder: root.PageOrder}
	for _, p := range root.Params {
		cp, err := translateParam(file, p)
		if err != nil {
			return nil, err
		}
		m.Params = append(m.Params, cp)
	}
	for _, p := range root.Pages {
		cp, err := translatePage(file, p)
		if err != nil {
			return nil, err
		}
		m.Params = append(m.Params, cp)
	}
	return m, nil
}

func translateParam(file string, p *schema.Param) (*config.Param, error) {
	kind, err := param.ParseType(p.Type)
	if err != nil {
		return nil, fmt.Errorf("%s: param %q: %w", file, p.Name, err)
	}
	cp := &config.Param{
		Name:              p.Name,
		Type:              kind,
		Source:            file,
		Label:             deref(p.Label),
		ShortLabel:        deref(p.ShortLabel),
		LongLabel:         deref(p.LongLabel),
		Hint:              deref(p.Hint),
		ScriptName:        deref(p.ScriptName),
		Secret:            p.Secret,
		Enabled:           p.Enabled,
		Parent:            deref(p.Parent),
		Animates:          p.Animates,
		Persistent:        p.Persistent,
		EvaluateOnChange:  p.EvaluateOnChange,
		CanUndo:           p.CanUndo,
		CacheInvalidation: deref(p.CacheInvalidation),
		DimensionLabels:   p.DimensionLabels,
		Increment:         p.Increment,
		Digits:            p.Digits,
		DoubleType:        deref(p.DoubleType),
		ShowTimeMarker:    p.ShowTimeMarker,
		StringType:        deref(p.StringType),
		FilePathExists:    p.FilePathExists,
		Options:           p.Options,
	}

	exprs := []struct {
		name string
		expr hcl.Expression
		dst  *cty.Value
	}{
		{"default", p.Default, &cp.Default},
		{"min", p.Min, &cp.Min},
		{"max", p.Max, &cp.Max},
		{"display_min", p.DisplayMin, &cp.DisplayMin},
		{"display_max", p.DisplayMax, &cp.DisplayMax},
	}
	for _, e := range exprs {
		v, err := evalValue(e.expr)
		if err != nil {
			return nil, fmt.Errorf("%s: param %q: %s: %w", file, p.Name, e.name, err)
		}
		*e.dst = v
	}
	return cp, nil
}

func translatePage(file string, p *schema.Page) (*config.Param, error) {
	children, err := evalChildren(p.Children)
	if err != nil {
		return nil, fmt.Errorf("%s: page %q: %w", file, p.Name, err)
	}
	return &config.Param{
		Name:       p.Name,
		Type:       param.TypePage,
		Source:     file,
		Label:      deref(p.Label),
		ShortLabel: deref(p.ShortLabel),
		LongLabel:  deref(p.LongLabel),
		Hint:       deref(p.Hint),
		Children:   children,
	}, nil
}

// evalValue evaluates a constant expression. Missing attributes evaluate
// to cty.NilVal.
func evalValue(expr hcl.Expression) (cty.Value, error) {
	if expr == nil {
		return cty.NilVal, nil
	}
	v, diags := expr.Value(nil)
	if diags.HasErrors() {
		return cty.NilVal, diags
	}
	if v.IsNull() {
		return cty.NilVal, nil
	}
	return v, nil
}

func evalChildren(expr hcl.Expression) ([]param.PageEntry, error) {
	if expr == nil {
		return nil, nil
	}
	v, diags := expr.Value(layoutContext)
	if diags.HasErrors() {
		return nil, diags
	}
	if v.IsNull() {
		return nil, nil
	}
	if !v.Type().IsTupleType() && !v.Type().IsListType() {
		return nil, fmt.Errorf("children must be a list, got %s", v.Type().FriendlyName())
	}

	var out []param.PageEntry
	for it := v.ElementIterator(); it.Next(); {
		_, el := it.Element()
		switch {
		case el.Type() == cty.String:
			out = append(out, param.ParamEntry(el.AsString()))
		case el.Type().IsObjectType() && el.Type().HasAttribute("kind"):
			out = append(out, param.PageEntry{Kind: el.GetAttr("kind").AsString()})
		default:
			return nil, fmt.Errorf("children: unsupported element of type %s", el.Type().FriendlyName())
		}
	}
	return out, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
