package propstore

import (
	"fmt"
	"math"

	"github.com/vk/paramgrid/internal/param"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Slot names one metadata property of a parameter or parameter set.
type Slot string

const (
	SlotLabel        Slot = "label"
	SlotShortLabel   Slot = "short_label"
	SlotLongLabel    Slot = "long_label"
	SlotHint         Slot = "hint"
	SlotScriptName   Slot = "script_name"
	SlotSecret       Slot = "secret"
	SlotEnabled      Slot = "enabled"
	SlotParent       Slot = "parent"
	SlotPageChildren Slot = "page_children"

	SlotAnimates          Slot = "animates"
	SlotAutoKeying        Slot = "auto_keying"
	SlotPersistent        Slot = "persistent"
	SlotEvaluateOnChange  Slot = "evaluate_on_change"
	SlotCacheInvalidation Slot = "cache_invalidation"
	SlotCanUndo           Slot = "can_undo"

	SlotDefault         Slot = "default"
	SlotMin             Slot = "min"
	SlotMax             Slot = "max"
	SlotDisplayMin      Slot = "display_min"
	SlotDisplayMax      Slot = "display_max"
	SlotDimensionLabels Slot = "dimension_labels"
	SlotIncrement       Slot = "increment"
	SlotDigits          Slot = "digits"
	SlotDoubleType      Slot = "double_type"
	SlotShowTimeMarker  Slot = "show_time_marker"
	SlotStringType      Slot = "string_type"
	SlotFilePathExists  Slot = "file_path_exists"
	SlotChoiceOptions   Slot = "choice_options"

	// SlotPageOrder lives on the parameter set's own bag.
	SlotPageOrder Slot = "page_order"
)

// SetDefaults is the initial content of a parameter set's bag.
func SetDefaults() map[Slot]cty.Value {
	return map[Slot]cty.Value{
		SlotPageOrder: cty.ListValEmpty(cty.String),
	}
}

// Defaults returns the initial slots of a freshly created parameter. The
// returned map also defines which slots the kind carries.
func Defaults(name string, kind param.Type) map[Slot]cty.Value {
	slots := map[Slot]cty.Value{
		SlotLabel:      cty.StringVal(name),
		SlotShortLabel: cty.StringVal(name),
		SlotLongLabel:  cty.StringVal(name),
		SlotHint:       cty.StringVal(""),
		SlotScriptName: cty.StringVal(name),
		SlotSecret:     cty.False,
		SlotEnabled:    cty.True,
		SlotParent:     cty.StringVal(""),
	}
	if kind == param.TypePage {
		slots[SlotPageChildren] = cty.ListValEmpty(param.EntriesCodec.Type().ElementType())
	}
	if !kind.HoldsValue() {
		return slots
	}

	slots[SlotAnimates] = cty.BoolVal(kind != param.TypeCustom)
	slots[SlotAutoKeying] = cty.False
	slots[SlotPersistent] = cty.True
	slots[SlotEvaluateOnChange] = cty.True
	slots[SlotCacheInvalidation] = cty.StringVal(param.InvalidateValueChange.String())
	slots[SlotCanUndo] = cty.True

	intLimits := func(dim int) (lo, hi cty.Value) {
		return vector(kind, dim, math.MinInt32), vector(kind, dim, math.MaxInt32)
	}
	floatLimits := func(dim int) (lo, hi cty.Value) {
		return vector(kind, dim, -math.MaxFloat64), vector(kind, dim, math.MaxFloat64)
	}

	switch kind {
	case param.TypeString:
		slots[SlotDefault] = cty.StringVal("")
		slots[SlotStringType] = cty.StringVal(param.StringSingleLine.String())
		slots[SlotFilePathExists] = cty.True
	case param.TypeCustom:
		slots[SlotDefault] = cty.StringVal("")
	case param.TypeBoolean:
		slots[SlotDefault] = cty.False
	case param.TypeChoice:
		slots[SlotDefault] = cty.NumberIntVal(0)
		slots[SlotChoiceOptions] = cty.ListValEmpty(cty.String)
	case param.TypeInt, param.TypeInt2D, param.TypeInt3D:
		dim := kind.Dimension()
		slots[SlotDefault] = vector(kind, dim, 0)
		lo, hi := intLimits(dim)
		slots[SlotMin], slots[SlotMax] = lo, hi
		slots[SlotDisplayMin], slots[SlotDisplayMax] = lo, hi
		if dim > 1 {
			slots[SlotDimensionLabels] = dimensionLabels(dim)
		}
	case param.TypeDouble, param.TypeDouble2D, param.TypeDouble3D:
		dim := kind.Dimension()
		slots[SlotDefault] = vector(kind, dim, 0)
		lo, hi := floatLimits(dim)
		slots[SlotMin], slots[SlotMax] = lo, hi
		slots[SlotDisplayMin], slots[SlotDisplayMax] = lo, hi
		slots[SlotIncrement] = cty.NumberFloatVal(1)
		slots[SlotDigits] = cty.NumberIntVal(2)
		slots[SlotDoubleType] = cty.StringVal(param.DoublePlain.String())
		if dim > 1 {
			slots[SlotDimensionLabels] = dimensionLabels(dim)
		} else {
			slots[SlotShowTimeMarker] = cty.False
		}
	case param.TypeRGB, param.TypeRGBA:
		slots[SlotDefault] = vector(kind, kind.Dimension(), 0)
	}
	return slots
}

// vector builds a value of kind's value type with every component set to f.
func vector(kind param.Type, dim int, f float64) cty.Value {
	ty := param.ValueType(kind)
	if ty == cty.Number {
		return cty.NumberFloatVal(f)
	}
	attrs := make(map[string]cty.Value, dim)
	for name := range ty.AttributeTypes() {
		attrs[name] = cty.NumberFloatVal(f)
	}
	return cty.ObjectVal(attrs)
}

func dimensionLabels(dim int) cty.Value {
	labels := []cty.Value{cty.StringVal("x"), cty.StringVal("y"), cty.StringVal("z")}
	return cty.ListVal(labels[:dim])
}

// SlotType is the cty type values of a slot are converted to before being
// stored; cty.DynamicPseudoType means "same type as the kind's value".
func SlotType(slot Slot) cty.Type {
	switch slot {
	case SlotLabel, SlotShortLabel, SlotLongLabel, SlotHint, SlotScriptName, SlotParent,
		SlotCacheInvalidation, SlotDoubleType, SlotStringType:
		return cty.String
	case SlotSecret, SlotEnabled, SlotAnimates, SlotAutoKeying, SlotPersistent,
		SlotEvaluateOnChange, SlotCanUndo, SlotShowTimeMarker, SlotFilePathExists:
		return cty.Bool
	case SlotIncrement, SlotDigits:
		return cty.Number
	case SlotDimensionLabels, SlotChoiceOptions, SlotPageOrder:
		return cty.List(cty.String)
	case SlotPageChildren:
		return param.EntriesCodec.Type()
	}
	return cty.DynamicPseudoType
}

// Coerce converts v to the type stored in slot for a parameter of kind.
func Coerce(kind param.Type, slot Slot, v cty.Value) (cty.Value, error) {
	ty := SlotType(slot)
	if ty == cty.DynamicPseudoType {
		ty = param.ValueType(kind)
	}
	if v.IsNull() {
		return cty.NilVal, fmt.Errorf("slot %s: value must not be null", slot)
	}
	if v.Type().Equals(ty) {
		return v, nil
	}
	out, err := convert.Convert(v, ty)
	if err != nil {
		return cty.NilVal, fmt.Errorf("slot %s: %w", slot, err)
	}
	return out, nil
}
