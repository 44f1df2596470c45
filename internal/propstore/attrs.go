package propstore

import (
	"fmt"

	"github.com/vk/paramgrid/internal/param"
)

// Meta exposes the presentation slots every parameter kind carries. Both
// descriptors and instances embed it.
type Meta struct {
	P Properties
}

func (m Meta) Label() (string, error)      { return Get(m.P, SlotLabel, param.StringCodec) }
func (m Meta) ShortLabel() (string, error) { return Get(m.P, SlotShortLabel, param.StringCodec) }
func (m Meta) LongLabel() (string, error)  { return Get(m.P, SlotLongLabel, param.StringCodec) }
func (m Meta) Hint() (string, error)       { return Get(m.P, SlotHint, param.StringCodec) }
func (m Meta) ScriptName() (string, error) { return Get(m.P, SlotScriptName, param.StringCodec) }
func (m Meta) Secret() (bool, error)       { return Get(m.P, SlotSecret, param.BoolCodec) }
func (m Meta) Enabled() (bool, error)      { return Get(m.P, SlotEnabled, param.BoolCodec) }

// ParentName is the name of the enclosing group, or "" at top level.
func (m Meta) ParentName() (string, error) { return Get(m.P, SlotParent, param.StringCodec) }

// SetLabels sets the label and its short and long variants at once.
func (m Meta) SetLabels(label, short, long string) error {
	for slot, v := range map[Slot]string{SlotLabel: label, SlotShortLabel: short, SlotLongLabel: long} {
		if err := Set(m.P, slot, param.StringCodec, v); err != nil {
			return err
		}
	}
	return nil
}

func (m Meta) SetLabel(label string) error { return Set(m.P, SlotLabel, param.StringCodec, label) }
func (m Meta) SetHint(hint string) error   { return Set(m.P, SlotHint, param.StringCodec, hint) }
func (m Meta) SetScriptName(name string) error {
	return Set(m.P, SlotScriptName, param.StringCodec, name)
}
func (m Meta) SetSecret(v bool) error  { return Set(m.P, SlotSecret, param.BoolCodec, v) }
func (m Meta) SetEnabled(v bool) error { return Set(m.P, SlotEnabled, param.BoolCodec, v) }

// Behavior exposes the slots of value-holding kinds that are not typed by
// the value itself.
type Behavior struct {
	P Properties
}

func (b Behavior) Animates() (bool, error)   { return Get(b.P, SlotAnimates, param.BoolCodec) }
func (b Behavior) AutoKeying() (bool, error) { return Get(b.P, SlotAutoKeying, param.BoolCodec) }
func (b Behavior) Persistent() (bool, error) { return Get(b.P, SlotPersistent, param.BoolCodec) }
func (b Behavior) CanUndo() (bool, error)    { return Get(b.P, SlotCanUndo, param.BoolCodec) }
func (b Behavior) EvaluateOnChange() (bool, error) {
	return Get(b.P, SlotEvaluateOnChange, param.BoolCodec)
}

func (b Behavior) CacheInvalidation() (param.CacheInvalidation, error) {
	s, err := Get(b.P, SlotCacheInvalidation, param.StringCodec)
	if err != nil {
		return 0, err
	}
	return param.ParseCacheInvalidation(s)
}

func (b Behavior) SetAnimates(v bool) error   { return Set(b.P, SlotAnimates, param.BoolCodec, v) }
func (b Behavior) SetAutoKeying(v bool) error { return Set(b.P, SlotAutoKeying, param.BoolCodec, v) }
func (b Behavior) SetPersistent(v bool) error { return Set(b.P, SlotPersistent, param.BoolCodec, v) }
func (b Behavior) SetCanUndo(v bool) error    { return Set(b.P, SlotCanUndo, param.BoolCodec, v) }
func (b Behavior) SetEvaluateOnChange(v bool) error {
	return Set(b.P, SlotEvaluateOnChange, param.BoolCodec, v)
}

func (b Behavior) SetCacheInvalidation(c param.CacheInvalidation) error {
	return Set(b.P, SlotCacheInvalidation, param.StringCodec, c.String())
}

// DoubleAttrs exposes the presentation hints of double kinds.
type DoubleAttrs struct {
	P Properties
}

func (d DoubleAttrs) Increment() (float64, error) { return Get(d.P, SlotIncrement, param.FloatCodec) }
func (d DoubleAttrs) Digits() (int, error)         { return Get(d.P, SlotDigits, param.IntCodec) }

func (d DoubleAttrs) DoubleType() (param.DoubleType, error) {
	s, err := Get(d.P, SlotDoubleType, param.StringCodec)
	if err != nil {
		return 0, err
	}
	return param.ParseDoubleType(s)
}

func (d DoubleAttrs) SetIncrement(v float64) error { return Set(d.P, SlotIncrement, param.FloatCodec, v) }
func (d DoubleAttrs) SetDigits(v int) error         { return Set(d.P, SlotDigits, param.IntCodec, v) }

func (d DoubleAttrs) SetDoubleType(t param.DoubleType) error {
	return Set(d.P, SlotDoubleType, param.StringCodec, t.String())
}

// Dimensions exposes the per-axis labels of 2D and 3D kinds.
type Dimensions struct {
	P Properties
	N int
}

func (d Dimensions) DimensionLabels() ([]string, error) {
	return Get(d.P, SlotDimensionLabels, param.StringsCodec)
}

// SetDimensionLabels takes exactly one label per axis.
func (d Dimensions) SetDimensionLabels(labels ...string) error {
	if len(labels) != d.N {
		return fmt.Errorf("need %d dimension labels, got %d", d.N, len(labels))
	}
	return Set(d.P, SlotDimensionLabels, param.StringsCodec, labels)
}

// StringAttrs exposes the slots of string kinds.
type StringAttrs struct {
	P Properties
}

func (s StringAttrs) StringType() (param.StringType, error) {
	v, err := Get(s.P, SlotStringType, param.StringCodec)
	if err != nil {
		return 0, err
	}
	return param.ParseStringType(v)
}

func (s StringAttrs) SetStringType(t param.StringType) error {
	return Set(s.P, SlotStringType, param.StringCodec, t.String())
}

// FilePathExists reports whether a file path string must name an existing
// file. Only meaningful with param.StringFilePath.
func (s StringAttrs) FilePathExists() (bool, error) {
	return Get(s.P, SlotFilePathExists, param.BoolCodec)
}

func (s StringAttrs) SetFilePathExists(v bool) error {
	return Set(s.P, SlotFilePathExists, param.BoolCodec, v)
}

// ChoiceOptions is the ordered label list of a choice.
type ChoiceOptions struct {
	P Properties
}

func (o ChoiceOptions) Options() ([]string, error) {
	return Get(o.P, SlotChoiceOptions, param.StringsCodec)
}

func (o ChoiceOptions) NOptions() (int, error) {
	opts, err := o.Options()
	return len(opts), err
}

func (o ChoiceOptions) AppendOption(label string) error {
	opts, err := o.Options()
	if err != nil {
		return err
	}
	return Set(o.P, SlotChoiceOptions, param.StringsCodec, append(opts, label))
}

func (o ChoiceOptions) ResetOptions() error {
	return Set(o.P, SlotChoiceOptions, param.StringsCodec, nil)
}
