package curve

import (
	"fmt"
	"math"
	"sort"

	"github.com/vk/paramgrid/internal/param"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Mode selects how values between keys are produced.
type Mode int

const (
	// Linear blends neighbouring keys.
	Linear Mode = iota
	// LinearRound blends neighbouring keys and rounds each component.
	LinearRound
	// Step holds the earlier key's value.
	Step
)

// ModeFor returns the evaluation mode of a parameter kind.
func ModeFor(t param.Type) Mode {
	switch {
	case !t.Interpolates():
		return Step
	case t.IsInteger():
		return LinearRound
	}
	return Linear
}

// Key is a single keyframe.
type Key struct {
	Time  float64
	Value cty.Value
}

// Track is the static value plus keyframes of one parameter.
type Track struct {
	kind param.Type
	ty   cty.Type
	mode Mode

	// Animates mirrors the parameter's animates flag. When false, writes at
	// a time update the static value instead of creating keys.
	Animates bool

	static cty.Value
	keys   []Key
}

// New returns a track for a value-holding kind with the given static value.
func New(kind param.Type, static cty.Value) (*Track, error) {
	if !kind.HoldsValue() {
		return nil, fmt.Errorf("%s parameters do not hold values", kind)
	}
	t := &Track{
		kind:     kind,
		ty:       param.ValueType(kind),
		mode:     ModeFor(kind),
		Animates: true,
	}
	v, err := t.conform(static)
	if err != nil {
		return nil, err
	}
	t.static = v
	return t, nil
}

// Restore rebuilds a track from persisted state. Keys may arrive in any
// order but must not repeat a time.
func Restore(kind param.Type, animates bool, static cty.Value, keys []Key) (*Track, error) {
	t, err := New(kind, static)
	if err != nil {
		return nil, err
	}
	t.Animates = animates
	sorted := make([]Key, 0, len(keys))
	for _, k := range keys {
		v, err := t.conform(k.Value)
		if err != nil {
			return nil, fmt.Errorf("key at %g: %w", k.Time, err)
		}
		sorted = append(sorted, Key{Time: k.Time, Value: v})
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Time == sorted[i-1].Time {
			return nil, fmt.Errorf("duplicate key at time %g", sorted[i].Time)
		}
	}
	t.keys = sorted
	return t, nil
}

func (t *Track) conform(v cty.Value) (cty.Value, error) {
	if v.IsNull() {
		return cty.NilVal, fmt.Errorf("%s value must not be null", t.kind)
	}
	out, err := convert.Convert(v, t.ty)
	if err != nil {
		return cty.NilVal, fmt.Errorf("%s value: %w", t.kind, err)
	}
	return out, nil
}

// Kind is the parameter kind the track was built for.
func (t *Track) Kind() param.Type { return t.kind }

// Static is the value used while no keys exist.
func (t *Track) Static() cty.Value { return t.static }

// SetStatic replaces the static value without touching keys.
func (t *Track) SetStatic(v cty.Value) error {
	v, err := t.conform(v)
	if err != nil {
		return err
	}
	t.static = v
	return nil
}

// Keys returns a copy of the keys in time order.
func (t *Track) Keys() []Key {
	out := make([]Key, len(t.keys))
	copy(out, t.keys)
	return out
}

func (t *Track) NumKeys() int { return len(t.keys) }

// IsAnimating reports whether at least one key exists.
func (t *Track) IsAnimating() bool { return len(t.keys) > 0 }

// KeyTime returns the time of the i-th key.
func (t *Track) KeyTime(i int) (float64, error) {
	if i < 0 || i >= len(t.keys) {
		return 0, &param.RangeError{Index: i, Count: len(t.keys)}
	}
	return t.keys[i].Time, nil
}

// checkTime rejects NaN and infinite times.
func checkTime(time float64) error {
	if math.IsNaN(time) || math.IsInf(time, 0) {
		return fmt.Errorf("invalid time %v", time)
	}
	return nil
}

// KeyIndex searches for a key relative to time, returning -1 when no key
// satisfies the search.
func (t *Track) KeyIndex(time float64, dir param.KeySearch) (int, error) {
	if err := checkTime(time); err != nil {
		return -1, err
	}
	return t.keyIndex(time, dir), nil
}

func (t *Track) keyIndex(time float64, dir param.KeySearch) int {
	n := len(t.keys)
	// first index with key time >= time
	i := sort.Search(n, func(i int) bool { return t.keys[i].Time >= time })
	switch dir {
	case param.SearchForward:
		if i < n {
			return i
		}
		return -1
	case param.SearchBackward:
		if i < n && t.keys[i].Time == time {
			return i
		}
		return i - 1
	case param.SearchNear:
		switch {
		case n == 0:
			return -1
		case i == n:
			return n - 1
		case i == 0 || t.keys[i].Time == time:
			return i
		}
		if time-t.keys[i-1].Time <= t.keys[i].Time-time {
			return i - 1
		}
		return i
	}
	return -1
}

// ValueAt evaluates the track at time.
func (t *Track) ValueAt(time float64) (cty.Value, error) {
	if err := checkTime(time); err != nil {
		return cty.NilVal, err
	}
	n := len(t.keys)
	if n == 0 {
		return t.static, nil
	}
	i := sort.Search(n, func(i int) bool { return t.keys[i].Time > time })
	switch {
	case i == 0:
		return t.keys[0].Value, nil
	case i == n:
		return t.keys[n-1].Value, nil
	}
	prev, next := t.keys[i-1], t.keys[i]
	if prev.Time == time || t.mode == Step {
		return prev.Value, nil
	}
	a, err := components(prev.Value)
	if err != nil {
		return cty.NilVal, err
	}
	b, err := components(next.Value)
	if err != nil {
		return cty.NilVal, err
	}
	f := (time - prev.Time) / (next.Time - prev.Time)
	return compose(t.ty, lerp(a, b, f), t.mode == LinearRound)
}

// Set writes the value "now". A static track takes the value directly; an
// animating one gets a key at now.
func (t *Track) Set(now float64, v cty.Value) error {
	if t.IsAnimating() {
		return t.SetAt(now, v)
	}
	return t.SetStatic(v)
}

// SetAt inserts or overwrites the key at exactly time. The first key turns
// the track into an animating one. A track that does not animate and has no
// keys takes the value as its static value; existing keys are always edited.
func (t *Track) SetAt(time float64, v cty.Value) error {
	if !t.Animates && len(t.keys) == 0 {
		return t.SetStatic(v)
	}
	if err := checkTime(time); err != nil {
		return err
	}
	v, err := t.conform(v)
	if err != nil {
		return err
	}
	i := sort.Search(len(t.keys), func(i int) bool { return t.keys[i].Time >= time })
	if i < len(t.keys) && t.keys[i].Time == time {
		t.keys[i].Value = v
		return nil
	}
	t.keys = append(t.keys, Key{})
	copy(t.keys[i+1:], t.keys[i:])
	t.keys[i] = Key{Time: time, Value: v}
	return nil
}

// DeleteKey removes the key at exactly time and reports whether one existed.
func (t *Track) DeleteKey(time float64) bool {
	i := sort.Search(len(t.keys), func(i int) bool { return t.keys[i].Time >= time })
	if i == len(t.keys) || t.keys[i].Time != time {
		return false
	}
	t.keys = append(t.keys[:i], t.keys[i+1:]...)
	return true
}

// DeleteAll removes every key, keeping the value the track had at now as
// its static value.
func (t *Track) DeleteAll(now float64) error {
	v, err := t.ValueAt(now)
	if err != nil {
		return err
	}
	t.static = v
	t.keys = nil
	return nil
}

// rawAt is ValueAt for numeric tracks, without rounding.
func (t *Track) rawAt(time float64) ([]float64, error) {
	n := len(t.keys)
	if n == 0 {
		return components(t.static)
	}
	i := sort.Search(n, func(i int) bool { return t.keys[i].Time > time })
	switch {
	case i == 0:
		return components(t.keys[0].Value)
	case i == n:
		return components(t.keys[n-1].Value)
	}
	prev, next := t.keys[i-1], t.keys[i]
	a, err := components(prev.Value)
	if err != nil {
		return nil, err
	}
	b, err := components(next.Value)
	if err != nil {
		return nil, err
	}
	return lerp(a, b, (time-prev.Time)/(next.Time-prev.Time)), nil
}

func (t *Track) requireNumeric() error {
	if !t.kind.IsNumeric() {
		return fmt.Errorf("%s parameters cannot be differentiated or integrated", t.kind)
	}
	return nil
}

// Derivative is the rate of change at time: the slope of the segment
// k[i] <= time < k[i+1], and zero outside the keyed range or when fewer than
// two keys exist.
func (t *Track) Derivative(time float64) (cty.Value, error) {
	if err := t.requireNumeric(); err != nil {
		return cty.NilVal, err
	}
	if err := checkTime(time); err != nil {
		return cty.NilVal, err
	}
	zero, err := components(t.static)
	if err != nil {
		return cty.NilVal, err
	}
	zero = scale(zero, 0)
	n := len(t.keys)
	i := sort.Search(n, func(i int) bool { return t.keys[i].Time > time })
	if n < 2 || i == 0 || i == n {
		return compose(t.ty, zero, false)
	}
	prev, next := t.keys[i-1], t.keys[i]
	a, err := components(prev.Value)
	if err != nil {
		return cty.NilVal, err
	}
	b, err := components(next.Value)
	if err != nil {
		return cty.NilVal, err
	}
	slope := scale(add(b, scale(a, -1)), 1/(next.Time-prev.Time))
	return compose(t.ty, slope, false)
}

// Integral is the definite integral of the curve over [t1, t2]. Swapping the
// bounds negates the result.
func (t *Track) Integral(t1, t2 float64) (cty.Value, error) {
	if err := t.requireNumeric(); err != nil {
		return cty.NilVal, err
	}
	if err := checkTime(t1); err != nil {
		return cty.NilVal, err
	}
	if err := checkTime(t2); err != nil {
		return cty.NilVal, err
	}
	if t1 > t2 {
		v, err := t.integral(t2, t1)
		if err != nil {
			return cty.NilVal, err
		}
		return compose(t.ty, scale(v, -1), false)
	}
	v, err := t.integral(t1, t2)
	if err != nil {
		return cty.NilVal, err
	}
	return compose(t.ty, v, false)
}

// integral sums trapezoids between consecutive breakpoints; the curve is
// linear (or constant) between them so the sum is exact.
func (t *Track) integral(lo, hi float64) ([]float64, error) {
	points := []float64{lo}
	for _, k := range t.keys {
		if k.Time > lo && k.Time < hi {
			points = append(points, k.Time)
		}
	}
	points = append(points, hi)

	sum, err := t.rawAt(lo)
	if err != nil {
		return nil, err
	}
	sum = scale(sum, 0)
	for i := 1; i < len(points); i++ {
		a, err := t.rawAt(points[i-1])
		if err != nil {
			return nil, err
		}
		b, err := t.rawAt(points[i])
		if err != nil {
			return nil, err
		}
		sum = add(sum, scale(add(a, b), (points[i]-points[i-1])/2))
	}
	return sum, nil
}
