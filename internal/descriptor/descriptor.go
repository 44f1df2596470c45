package descriptor

import (
	"fmt"

	"github.com/vk/paramgrid/internal/param"
	"github.com/vk/paramgrid/internal/propstore"
)

// base is embedded by every descriptor kind.
type base struct {
	propstore.Meta
	set *Set // non-owning, for parent and child resolution
	h   propstore.Handle
}

func newBase(s *Set, h propstore.Handle) base {
	return base{Meta: propstore.Meta{P: h}, set: s, h: h}
}

func (b *base) Name() string             { return b.h.Name() }
func (b *base) Type() param.Type         { return b.h.Type() }
func (b *base) Handle() propstore.Handle { return b.h }
func (b *base) isDescriptor()            {}
func (b *base) String() string           { return fmt.Sprintf("%s %q", b.Type(), b.Name()) }

// SetParent places the descriptor inside group g; nil moves it back to the
// top level. A group can not become its own ancestor.
func (b *base) SetParent(g *Group) error {
	if g == nil {
		return propstore.Set(b.h, propstore.SlotParent, param.StringCodec, "")
	}
	if !b.set.owns(g) {
		return fmt.Errorf("group %q: %w in this set", g.Name(), param.ErrNotFound)
	}
	seen := make(map[string]bool)
	for cur := g.Name(); cur != ""; {
		if cur == b.Name() {
			return fmt.Errorf("%w: %q is an ancestor of group %q", param.ErrCycle, b.Name(), g.Name())
		}
		if seen[cur] {
			break
		}
		seen[cur] = true
		d, ok := b.set.Descriptor(cur)
		if !ok {
			break
		}
		next, err := d.ParentName()
		if err != nil {
			return err
		}
		cur = next
	}
	return propstore.Set(b.h, propstore.SlotParent, param.StringCodec, g.Name())
}

// Parent returns the enclosing group, or nil at top level.
func (b *base) Parent() (*Group, error) {
	name, err := b.ParentName()
	if err != nil || name == "" {
		return nil, err
	}
	d, ok := b.set.Descriptor(name)
	if !ok {
		return nil, fmt.Errorf("parent %q of %q: %w", name, b.Name(), param.ErrNotFound)
	}
	g, ok := d.(*Group)
	if !ok {
		return nil, fmt.Errorf("parent %q of %q is a %s", name, b.Name(), d.Type())
	}
	return g, nil
}

// valued is embedded by every kind holding a value of type V.
type valued[V any] struct {
	base
	propstore.Behavior
	codec param.Codec[V]
}

func newValued[V any](b base, c param.Codec[V]) valued[V] {
	return valued[V]{base: b, Behavior: propstore.Behavior{P: b.h}, codec: c}
}

func (v *valued[V]) Default() (V, error) {
	return propstore.Get(v.h, propstore.SlotDefault, v.codec)
}

func (v *valued[V]) SetDefault(x V) error {
	return propstore.Set(v.h, propstore.SlotDefault, v.codec, x)
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
