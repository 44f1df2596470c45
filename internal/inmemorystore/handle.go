package inmemorystore

import (
	"fmt"

	"github.com/vk/paramgrid/internal/curve"
	"github.com/vk/paramgrid/internal/param"
	"github.com/vk/paramgrid/internal/propstore"
	"github.com/zclconf/go-cty/cty"
)

// entry is the storage of one parameter.
type entry struct {
	bag
	name  string
	track *curve.Track // nil for kinds without a value
	// valueSet records the first explicit value write; until then the
	// static value follows the default slot.
	valueSet bool
}

// handle implements propstore.Handle over an entry.
type handle struct {
	e *entry
}

func (h *handle) Name() string     { return h.e.name }
func (h *handle) Type() param.Type { return h.e.kind }

func (h *handle) Get(slot propstore.Slot) (cty.Value, error) {
	return h.e.Get(slot)
}

func (h *handle) Set(slot propstore.Slot, v cty.Value) error {
	s := h.e.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := h.e.setLocked(slot, v); err != nil {
		return err
	}
	if h.e.track == nil {
		return nil
	}
	switch slot {
	case propstore.SlotAnimates:
		h.e.track.Animates = h.e.slots[slot].True()
	case propstore.SlotDefault:
		if !h.e.valueSet {
			return h.e.track.SetStatic(h.e.slots[slot])
		}
	}
	return nil
}

// withTrack runs fn under the store lock for value-holding parameters.
func (h *handle) withTrack(fn func(t *curve.Track) error) error {
	s := h.e.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if h.e.track == nil {
		return fmt.Errorf("%s parameter %q holds no value", h.e.kind, h.e.name)
	}
	return fn(h.e.track)
}

func (h *handle) NumKeys() (n int, err error) {
	err = h.withTrack(func(t *curve.Track) error {
		n = t.NumKeys()
		return nil
	})
	return n, err
}

func (h *handle) KeyTime(i int) (at float64, err error) {
	err = h.withTrack(func(t *curve.Track) error {
		var kerr error
		at, kerr = t.KeyTime(i)
		if re, ok := kerr.(*param.RangeError); ok {
			re.Name = h.e.name
		}
		return kerr
	})
	return at, err
}

func (h *handle) KeyIndex(at float64, dir param.KeySearch) (i int, err error) {
	err = h.withTrack(func(t *curve.Track) error {
		var kerr error
		i, kerr = t.KeyIndex(at, dir)
		return kerr
	})
	return i, err
}

func (h *handle) DeleteKeyAtTime(at float64) error {
	return h.withTrack(func(t *curve.Track) error {
		if t.DeleteKey(at) {
			h.e.store.mutated()
		}
		return nil
	})
}

func (h *handle) DeleteAllKeys() error {
	return h.withTrack(func(t *curve.Track) error {
		if !t.IsAnimating() {
			return nil
		}
		h.e.store.mutated()
		return t.DeleteAll(h.e.store.now)
	})
}

func (h *handle) Value() (v cty.Value, err error) {
	err = h.withTrack(func(t *curve.Track) error {
		v, err = t.ValueAt(h.e.store.now)
		return err
	})
	return v, err
}

func (h *handle) ValueAtTime(at float64) (v cty.Value, err error) {
	err = h.withTrack(func(t *curve.Track) error {
		v, err = t.ValueAt(at)
		return err
	})
	return v, err
}

func (h *handle) SetValue(v cty.Value) error {
	return h.withTrack(func(t *curve.Track) error {
		if err := t.Set(h.e.store.now, v); err != nil {
			return err
		}
		h.e.valueSet = true
		h.e.store.mutated()
		return nil
	})
}

func (h *handle) SetValueAtTime(at float64, v cty.Value) error {
	return h.withTrack(func(t *curve.Track) error {
		if err := t.SetAt(at, v); err != nil {
			return err
		}
		h.e.valueSet = true
		h.e.store.mutated()
		return nil
	})
}

func (h *handle) Derivative(at float64) (v cty.Value, err error) {
	err = h.withTrack(func(t *curve.Track) error {
		v, err = t.Derivative(at)
		return err
	})
	return v, err
}

func (h *handle) Integral(t1, t2 float64) (v cty.Value, err error) {
	err = h.withTrack(func(t *curve.Track) error {
		v, err = t.Integral(t1, t2)
		return err
	})
	return v, err
}
