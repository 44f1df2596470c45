package param

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Codec moves Go values of type V in and out of the cty representation a
// Property Store keeps.
type Codec[V any] struct {
	ty cty.Type
}

// CodecFor builds the codec for V from the type gocty implies for it.
func CodecFor[V any]() Codec[V] {
	var zero V
	ty, err := gocty.ImpliedType(zero)
	if err != nil {
		// V is always one of this package's value types or a primitive.
		panic(fmt.Sprintf("param: no cty type for %T: %v", zero, err))
	}
	return Codec[V]{ty: ty}
}

// Type is the cty type values are encoded as.
func (c Codec[V]) Type() cty.Type { return c.ty }

func (c Codec[V]) Encode(v V) (cty.Value, error) {
	out, err := gocty.ToCtyValue(v, c.ty)
	if err != nil {
		return cty.NilVal, err
	}
	// gocty maps a nil slice to null; stores keep empty lists instead.
	if out.IsNull() && c.ty.IsListType() {
		return cty.ListValEmpty(c.ty.ElementType()), nil
	}
	return out, nil
}

func (c Codec[V]) Decode(v cty.Value) (V, error) {
	var out V
	if v.IsNull() {
		return out, fmt.Errorf("cannot decode null %s", c.ty.FriendlyName())
	}
	conv, err := convert.Convert(v, c.ty)
	if err != nil {
		return out, fmt.Errorf("cannot convert %s to %s: %w", v.Type().FriendlyName(), c.ty.FriendlyName(), err)
	}
	if err := gocty.FromCtyValue(conv, &out); err != nil {
		return out, err
	}
	return out, nil
}

// Common codecs.
var (
	IntCodec      = CodecFor[int]()
	FloatCodec    = CodecFor[float64]()
	StringCodec   = CodecFor[string]()
	BoolCodec     = CodecFor[bool]()
	StringsCodec  = CodecFor[[]string]()
	EntriesCodec  = CodecFor[[]PageEntry]()
	Int2DCodec    = CodecFor[Int2D]()
	Int3DCodec    = CodecFor[Int3D]()
	Double2DCodec = CodecFor[Double2D]()
	Double3DCodec = CodecFor[Double3D]()
	RGBCodec      = CodecFor[RGB]()
	RGBACodec     = CodecFor[RGBA]()
)

// ValueType returns the cty type the value of a kind is stored as. Kinds
// without a value report cty.NilType.
func ValueType(t Type) cty.Type {
	switch t {
	case TypeString, TypeCustom:
		return cty.String
	case TypeInt, TypeChoice, TypeDouble:
		return cty.Number
	case TypeBoolean:
		return cty.Bool
	case TypeInt2D:
		return Int2DCodec.Type()
	case TypeInt3D:
		return Int3DCodec.Type()
	case TypeDouble2D:
		return Double2DCodec.Type()
	case TypeDouble3D:
		return Double3DCodec.Type()
	case TypeRGB:
		return RGBCodec.Type()
	case TypeRGBA:
		return RGBACodec.Type()
	}
	return cty.NilType
}
