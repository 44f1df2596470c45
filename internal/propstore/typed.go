package propstore

import (
	"fmt"

	"github.com/vk/paramgrid/internal/param"
)

// Get reads slot from p and decodes it with c.
func Get[V any](p Properties, slot Slot, c param.Codec[V]) (V, error) {
	var zero V
	v, err := p.Get(slot)
	if err != nil {
		return zero, err
	}
	out, err := c.Decode(v)
	if err != nil {
		return zero, fmt.Errorf("slot %s: %w", slot, err)
	}
	return out, nil
}

// Set encodes v with c and writes it to slot.
func Set[V any](p Properties, slot Slot, c param.Codec[V], v V) error {
	enc, err := c.Encode(v)
	if err != nil {
		return fmt.Errorf("slot %s: %w", slot, err)
	}
	return p.Set(slot, enc)
}

// Range reads a min/max slot pair.
func Range[V any](p Properties, lo, hi Slot, c param.Codec[V]) (min, max V, err error) {
	if min, err = Get(p, lo, c); err != nil {
		return min, max, err
	}
	max, err = Get(p, hi, c)
	return min, max, err
}

// SetRange writes a min/max slot pair.
func SetRange[V any](p Properties, lo, hi Slot, c param.Codec[V], min, max V) error {
	if err := Set(p, lo, c, min); err != nil {
		return err
	}
	return Set(p, hi, c, max)
}
