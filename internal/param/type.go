package param

import "fmt"

// Type enumerates the different kinds of parameter. A name keeps its Type for
// its whole lifetime.
type Type int

const (
	TypeDummy Type = iota
	TypeString
	TypeInt
	TypeInt2D
	TypeInt3D
	TypeDouble
	TypeDouble2D
	TypeDouble3D
	TypeRGB
	TypeRGBA
	TypeBoolean
	TypeChoice
	TypeCustom
	TypeGroup
	TypePage
	TypePushButton
)

var typeNames = [...]string{
	TypeDummy:      "dummy",
	TypeString:     "string",
	TypeInt:        "int",
	TypeInt2D:      "int2d",
	TypeInt3D:      "int3d",
	TypeDouble:     "double",
	TypeDouble2D:   "double2d",
	TypeDouble3D:   "double3d",
	TypeRGB:        "rgb",
	TypeRGBA:       "rgba",
	TypeBoolean:    "boolean",
	TypeChoice:     "choice",
	TypeCustom:     "custom",
	TypeGroup:      "group",
	TypePage:       "page",
	TypePushButton: "push_button",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// ParseType is the inverse of Type.String.
func ParseType(s string) (Type, error) {
	for i, name := range typeNames {
		if name == s {
			return Type(i), nil
		}
	}
	return TypeDummy, fmt.Errorf("unknown parameter type %q", s)
}

// HoldsValue reports whether parameters of this kind carry a value (and
// possibly a keyframe curve). Groups, pages, push buttons and the layout-only
// dummy kind do not.
func (t Type) HoldsValue() bool {
	switch t {
	case TypeDummy, TypeGroup, TypePage, TypePushButton:
		return false
	}
	return t >= 0 && int(t) < len(typeNames)
}

// IsNumeric reports whether the kind is an int or double kind of any
// dimension. Only numeric kinds can be differentiated and integrated.
func (t Type) IsNumeric() bool {
	switch t {
	case TypeInt, TypeInt2D, TypeInt3D, TypeDouble, TypeDouble2D, TypeDouble3D:
		return true
	}
	return false
}

// IsInteger reports whether the kind stores whole numbers.
func (t Type) IsInteger() bool {
	switch t {
	case TypeInt, TypeInt2D, TypeInt3D, TypeChoice:
		return true
	}
	return false
}

// Interpolates reports whether values between two keys are blended. Kinds
// that do not interpolate hold the earlier key's value until the next key.
func (t Type) Interpolates() bool {
	switch t {
	case TypeInt, TypeInt2D, TypeInt3D, TypeDouble, TypeDouble2D, TypeDouble3D, TypeRGB, TypeRGBA:
		return true
	}
	return false
}

// Dimension is the number of components for numeric and color kinds, 1 for
// the other value kinds and 0 for kinds without a value.
func (t Type) Dimension() int {
	switch t {
	case TypeInt2D, TypeDouble2D:
		return 2
	case TypeInt3D, TypeDouble3D, TypeRGB:
		return 3
	case TypeRGBA:
		return 4
	}
	if t.HoldsValue() {
		return 1
	}
	return 0
}
