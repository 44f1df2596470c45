package instance

import (
	"context"
	"fmt"

	"github.com/vk/paramgrid/internal/param"
	"github.com/vk/paramgrid/internal/propstore"
)

// Int is the runtime view of an integer parameter.
type Int struct {
	ranged[int]
	calculus[float64]
}

// Int2D is the runtime view of a 2D integer.
type Int2D struct {
	ranged[param.Int2D]
	calculus[param.Double2D]
	propstore.Dimensions
}

// Int3D is the runtime view of a 3D integer.
type Int3D struct {
	ranged[param.Int3D]
	calculus[param.Double3D]
	propstore.Dimensions
}

// Double is an animatable floating point parameter.
type Double struct {
	ranged[float64]
	calculus[float64]
	propstore.DoubleAttrs
}

func (d *Double) ShowTimeMarker() (bool, error) {
	return propstore.Get(d.Handle(), propstore.SlotShowTimeMarker, param.BoolCodec)
}

// Double2D is an animatable 2D double.
type Double2D struct {
	ranged[param.Double2D]
	calculus[param.Double2D]
	propstore.DoubleAttrs
	propstore.Dimensions
}

// Double3D is an animatable 3D double.
type Double3D struct {
	ranged[param.Double3D]
	calculus[param.Double3D]
	propstore.DoubleAttrs
	propstore.Dimensions
}

// String is the runtime view of a string parameter.
type String struct {
	valued[string]
	propstore.StringAttrs
}

// RGB is an animatable colour.
type RGB struct{ valued[param.RGB] }

// RGBA is an animatable colour with alpha.
type RGBA struct{ valued[param.RGBA] }

// Boolean is the runtime view of a checkbox.
type Boolean struct{ valued[bool] }

// Choice is the runtime view of a choice; its value is the option index.
type Choice struct {
	valued[int]
	propstore.ChoiceOptions
}

// Option returns the label of the currently selected option.
func (c *Choice) Option() (string, error) {
	i, err := c.Value()
	if err != nil {
		return "", err
	}
	opts, err := c.Options()
	if err != nil {
		return "", err
	}
	if i < 0 || i >= len(opts) {
		return "", fmt.Errorf("choice %q: index %d outside %d options", c.Name(), i, len(opts))
	}
	return opts[i], nil
}

// Custom holds a host-persisted string.
type Custom struct{ valued[string] }

// Group is the runtime view of a group.
type Group struct{ base }

// Page is the runtime view of a page; its layout is read-only here.
type Page struct{ base }

func (p *Page) Children() ([]param.PageEntry, error) {
	return propstore.Get(p.h, propstore.SlotPageChildren, param.EntriesCodec)
}

// PushButton is the runtime view of a button and has no value.
type PushButton struct{ base }

// Parent fetches the enclosing group from the owning set, or returns nil at
// top level.
func (b *base) Parent(ctx context.Context) (*Group, error) {
	name, err := b.ParentName()
	if err != nil || name == "" {
		return nil, err
	}
	return b.set.FetchGroup(ctx, name)
}

var (
	_ Animated = (*Int)(nil)
	_ Animated = (*Int2D)(nil)
	_ Animated = (*Int3D)(nil)
	_ Animated = (*Double)(nil)
	_ Animated = (*Double2D)(nil)
	_ Animated = (*Double3D)(nil)
	_ Animated = (*String)(nil)
	_ Animated = (*RGB)(nil)
	_ Animated = (*RGBA)(nil)
	_ Animated = (*Boolean)(nil)
	_ Animated = (*Choice)(nil)
	_ Animated = (*Custom)(nil)
	_ Param = (*Group)(nil)
	_ Param = (*Page)(nil)
	_ Param = (*PushButton)(nil)
)
