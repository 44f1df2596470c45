package instance

import (
	"fmt"

	"github.com/vk/paramgrid/internal/param"
	"github.com/vk/paramgrid/internal/propstore"
	"github.com/zclconf/go-cty/cty"
)

// base is embedded by every instance kind.
type base struct {
	propstore.Meta
	set *Set // non-owning, for parent lookups
	h   propstore.Handle
}

func newBase(s *Set, h propstore.Handle) base {
	return base{Meta: propstore.Meta{P: h}, set: s, h: h}
}

func (b *base) Name() string             { return b.h.Name() }
func (b *base) Type() param.Type         { return b.h.Type() }
func (b *base) Handle() propstore.Handle { return b.h }
func (b *base) isParam()                 {}
func (b *base) String() string           { return fmt.Sprintf("%s %q", b.Type(), b.Name()) }

// valued is embedded by every kind holding a value of type V.
type valued[V any] struct {
	base
	propstore.Behavior
	codec param.Codec[V]
}

func newValued[V any](b base, c param.Codec[V]) valued[V] {
	return valued[V]{base: b, Behavior: propstore.Behavior{P: b.h}, codec: c}
}

func (v *valued[V]) decode(raw cty.Value, err error) (V, error) {
	if err != nil {
		var zero V
		return zero, err
	}
	return v.codec.Decode(raw)
}

// Value is the value at the host's current time.
func (v *valued[V]) Value() (V, error) {
	return v.decode(v.h.Value())
}

// ValueAtTime evaluates the parameter at t. Without keys every t yields
// the static value.
func (v *valued[V]) ValueAtTime(t float64) (V, error) {
	return v.decode(v.h.ValueAtTime(t))
}

// SetValue sets the static value, or the key at the host's current time
// when the parameter is animating.
func (v *valued[V]) SetValue(x V) error {
	enc, err := v.codec.Encode(x)
	if err != nil {
		return err
	}
	if err := v.h.SetValue(enc); err != nil {
		return err
	}
	return v.changed(OpSet, v.set.store.Time())
}

// SetValueAtTime creates or replaces the key at t.
func (v *valued[V]) SetValueAtTime(t float64, x V) error {
	enc, err := v.codec.Encode(x)
	if err != nil {
		return err
	}
	if err := v.h.SetValueAtTime(t, enc); err != nil {
		return err
	}
	return v.changed(OpSetAt, t)
}

// RawValueAtTime is ValueAtTime without the Go decoding.
func (v *valued[V]) RawValueAtTime(t float64) (cty.Value, error) {
	return v.h.ValueAtTime(t)
}

// SetRawValue converts raw to the kind's value type and sets it like
// SetValue.
func (v *valued[V]) SetRawValue(raw cty.Value) error {
	x, err := v.codec.Decode(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", v, err)
	}
	return v.SetValue(x)
}

// SetRawValueAtTime converts raw and sets it like SetValueAtTime.
func (v *valued[V]) SetRawValueAtTime(t float64, raw cty.Value) error {
	x, err := v.codec.Decode(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", v, err)
	}
	return v.SetValueAtTime(t, x)
}

func (v *valued[V]) NumKeys() (int, error) { return v.h.NumKeys() }

// KeyTime fails with param.ErrOutOfRange outside [0, NumKeys).
func (v *valued[V]) KeyTime(i int) (float64, error) { return v.h.KeyTime(i) }

// KeyIndex returns -1 when no key satisfies the search.
func (v *valued[V]) KeyIndex(t float64, dir param.KeySearch) (int, error) {
	return v.h.KeyIndex(t, dir)
}

// DeleteKeyAtTime removes the key at exactly t, if any.
func (v *valued[V]) DeleteKeyAtTime(t float64) error {
	if err := v.h.DeleteKeyAtTime(t); err != nil {
		return err
	}
	return v.changed(OpDeleteKey, t)
}

// DeleteAllKeys removes every key, keeping the value at the host's current
// time as the static value.
func (v *valued[V]) DeleteAllKeys() error {
	if err := v.h.DeleteAllKeys(); err != nil {
		return err
	}
	return v.changed(OpDeleteAll, v.set.store.Time())
}

func (v *valued[V]) IsAnimating() (bool, error) {
	n, err := v.h.NumKeys()
	return n > 0, err
}

func (v *valued[V]) Default() (V, error) {
	return propstore.Get(v.h, propstore.SlotDefault, v.codec)
}

func (v *valued[V]) SetDefault(x V) error {
	return propstore.Set(v.h, propstore.SlotDefault, v.codec, x)
}

func (v *valued[V]) changed(op string, t float64) error {
	v.set.recorder.KeyEdit(op)
	if len(v.set.observers) == 0 {
		return nil
	}
	policy, err := v.CacheInvalidation()
	if err != nil {
		return err
	}
	c := Change{Name: v.Name(), Type: v.Type(), Op: op, Time: t, Policy: policy}
	for _, o := range v.set.observers {
		o.ParamChanged(c)
	}
	return nil
}

// ranged adds hard and display ranges.
type ranged[V any] struct {
	valued[V]
}

func newRanged[V any](b base, c param.Codec[V]) ranged[V] {
	return ranged[V]{newValued(b, c)}
}

func (r *ranged[V]) Range() (min, max V, err error) {
	return propstore.Range(r.h, propstore.SlotMin, propstore.SlotMax, r.codec)
}

func (r *ranged[V]) SetRange(min, max V) error {
	return propstore.SetRange(r.h, propstore.SlotMin, propstore.SlotMax, r.codec, min, max)
}

func (r *ranged[V]) DisplayRange() (min, max V, err error) {
	return propstore.Range(r.h, propstore.SlotDisplayMin, propstore.SlotDisplayMax, r.codec)
}

func (r *ranged[V]) SetDisplayRange(min, max V) error {
	return propstore.SetRange(r.h, propstore.SlotDisplayMin, propstore.SlotDisplayMax, r.codec, min, max)
}

// calculus evaluates the derivative and integral of a numeric curve. D is
// the floating point counterpart of the parameter's value type.
type calculus[D any] struct {
	h     propstore.Handle
	codec param.Codec[D]
}

// Differentiate is the rate of change at t.
func (c calculus[D]) Differentiate(t float64) (D, error) {
	var zero D
	raw, err := c.h.Derivative(t)
	if err != nil {
		return zero, err
	}
	return c.codec.Decode(raw)
}

// Integrate is the definite integral over [t1, t2]; t1 > t2 negates it.
func (c calculus[D]) Integrate(t1, t2 float64) (D, error) {
	var zero D
	raw, err := c.h.Integral(t1, t2)
	if err != nil {
		return zero, err
	}
	return c.codec.Decode(raw)
}
