package descriptor

import (
	"github.com/vk/paramgrid/internal/param"
	"github.com/vk/paramgrid/internal/propstore"
)

// Int describes a single integer with a value and display range.
type Int struct{ ranged[int] }

// Int2D describes a pair of integers.
type Int2D struct {
	ranged[param.Int2D]
	propstore.Dimensions
}

// Int3D describes three integers.
type Int3D struct {
	ranged[param.Int3D]
	propstore.Dimensions
}

// Double describes a floating point value with a double type hint.
type Double struct {
	ranged[float64]
	propstore.DoubleAttrs
}

// ShowTimeMarker is only carried by 1D doubles.
func (d *Double) ShowTimeMarker() (bool, error) {
	return propstore.Get(d.Handle(), propstore.SlotShowTimeMarker, param.BoolCodec)
}

func (d *Double) SetShowTimeMarker(v bool) error {
	return propstore.Set(d.Handle(), propstore.SlotShowTimeMarker, param.BoolCodec, v)
}

// Double2D describes a 2D double.
type Double2D struct {
	ranged[param.Double2D]
	propstore.DoubleAttrs
	propstore.Dimensions
}

// Double3D describes a 3D double.
type Double3D struct {
	ranged[param.Double3D]
	propstore.DoubleAttrs
	propstore.Dimensions
}

// String describes a text value and how it is edited.
type String struct {
	valued[string]
	propstore.StringAttrs
}

// RGB describes a colour without alpha.
type RGB struct{ valued[param.RGB] }

// RGBA describes a colour with alpha.
type RGBA struct{ valued[param.RGBA] }

// Boolean describes a checkbox.
type Boolean struct{ valued[bool] }

// Choice is an index into an ordered list of option labels.
type Choice struct {
	valued[int]
	propstore.ChoiceOptions
}

// Custom holds an opaque string the host persists but never interprets.
type Custom struct{ valued[string] }

// Group is a named container other descriptors reference as their parent.
type Group struct{ base }

// PushButton describes a button; it holds no value.
type PushButton struct{ base }

var (
	_ Descriptor = (*Int)(nil)
	_ Descriptor = (*Int2D)(nil)
	_ Descriptor = (*Int3D)(nil)
	_ Descriptor = (*Double)(nil)
	_ Descriptor = (*Double2D)(nil)
	_ Descriptor = (*Double3D)(nil)
	_ Descriptor = (*String)(nil)
	_ Descriptor = (*RGB)(nil)
	_ Descriptor = (*RGBA)(nil)
	_ Descriptor = (*Boolean)(nil)
	_ Descriptor = (*Choice)(nil)
	_ Descriptor = (*Custom)(nil)
	_ Descriptor = (*Group)(nil)
	_ Descriptor = (*Page)(nil)
	_ Descriptor = (*PushButton)(nil)
)
