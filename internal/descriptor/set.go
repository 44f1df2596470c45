package descriptor

import (
	"context"
	"fmt"

	"github.com/vk/paramgrid/internal/metrics"
	"github.com/vk/paramgrid/internal/param"
	"github.com/vk/paramgrid/internal/propstore"
	"github.com/vk/paramgrid/internal/registry"
)

// Descriptor is implemented by every descriptor kind in this package.
type Descriptor interface {
	Name() string
	Type() param.Type
	Label() (string, error)
	ParentName() (string, error)
	SetParent(g *Group) error
	Handle() propstore.Handle

	isDescriptor()
}

// Set is the descriptor registry of one declaration phase. It is not safe
// for concurrent use.
type Set struct {
	store propstore.Store
	reg   *registry.Registry
}

// NewSet creates a descriptor set over store. recorder may be nil.
func NewSet(store propstore.Store, recorder *metrics.Recorder) *Set {
	return &Set{
		store: store,
		reg:   registry.New("define", param.ErrSchemaConflict, recorder),
	}
}

// Store is the property store the set defines into.
func (s *Set) Store() propstore.Store { return s.store }

// Descriptor returns the descriptor defined under name.
func (s *Set) Descriptor(name string) (Descriptor, bool) {
	e, ok := s.reg.Lookup(name)
	if !ok {
		return nil, false
	}
	d, ok := e.(Descriptor)
	return d, ok
}

// Names lists defined names in definition order.
func (s *Set) Names() []string { return s.reg.Names() }

// owns reports whether d was defined by this set.
func (s *Set) owns(d Descriptor) bool {
	e, ok := s.reg.Lookup(d.Name())
	return ok && e == registry.Entry(d)
}

// SetPageOrder sets the order pages are presented in.
func (s *Set) SetPageOrder(pages ...*Page) error {
	names := make([]string, 0, len(pages))
	for _, p := range pages {
		if !s.owns(p) {
			return fmt.Errorf("page %q: %w in this set", p.Name(), param.ErrNotFound)
		}
		names = append(names, p.Name())
	}
	return propstore.Set(s.store.SetProperties(), propstore.SlotPageOrder, param.StringsCodec, names)
}

// PageOrder returns the page names set by SetPageOrder.
func (s *Set) PageOrder() ([]string, error) {
	return propstore.Get(s.store.SetProperties(), propstore.SlotPageOrder, param.StringsCodec)
}

func define[T registry.Entry](ctx context.Context, s *Set, name string, kind param.Type, build func(base) T) (T, error) {
	return registry.Resolve(ctx, s.reg, name, kind, func() (T, error) {
		h, err := s.store.CreateProperty(ctx, name, kind)
		if err != nil {
			var zero T
			return zero, err
		}
		return build(newBase(s, h)), nil
	})
}

// DefineInt declares an integer parameter.
func (s *Set) DefineInt(ctx context.Context, name string) (*Int, error) {
	return define(ctx, s, name, param.TypeInt, func(b base) *Int {
		return &Int{newRanged(b, param.IntCodec)}
	})
}

// DefineInt2D declares a pair of integers.
func (s *Set) DefineInt2D(ctx context.Context, name string) (*Int2D, error) {
	return define(ctx, s, name, param.TypeInt2D, func(b base) *Int2D {
		return &Int2D{newRanged(b, param.Int2DCodec), propstore.Dimensions{P: b.h, N: 2}}
	})
}

// DefineInt3D declares an integer triple.
func (s *Set) DefineInt3D(ctx context.Context, name string) (*Int3D, error) {
	return define(ctx, s, name, param.TypeInt3D, func(b base) *Int3D {
		return &Int3D{newRanged(b, param.Int3DCodec), propstore.Dimensions{P: b.h, N: 3}}
	})
}

// DefineDouble declares a floating point parameter.
func (s *Set) DefineDouble(ctx context.Context, name string) (*Double, error) {
	return define(ctx, s, name, param.TypeDouble, func(b base) *Double {
		return &Double{newRanged(b, param.FloatCodec), propstore.DoubleAttrs{P: b.h}}
	})
}

// DefineDouble2D declares a 2D double, such as a position or scale.
func (s *Set) DefineDouble2D(ctx context.Context, name string) (*Double2D, error) {
	return define(ctx, s, name, param.TypeDouble2D, func(b base) *Double2D {
		return &Double2D{newRanged(b, param.Double2DCodec), propstore.DoubleAttrs{P: b.h}, propstore.Dimensions{P: b.h, N: 2}}
	})
}

// DefineDouble3D declares a 3D double.
func (s *Set) DefineDouble3D(ctx context.Context, name string) (*Double3D, error) {
	return define(ctx, s, name, param.TypeDouble3D, func(b base) *Double3D {
		return &Double3D{newRanged(b, param.Double3DCodec), propstore.DoubleAttrs{P: b.h}, propstore.Dimensions{P: b.h, N: 3}}
	})
}

// DefineString declares a string parameter.
func (s *Set) DefineString(ctx context.Context, name string) (*String, error) {
	return define(ctx, s, name, param.TypeString, func(b base) *String {
		return &String{newValued(b, param.StringCodec), propstore.StringAttrs{P: b.h}}
	})
}

// DefineRGB declares an RGB colour.
func (s *Set) DefineRGB(ctx context.Context, name string) (*RGB, error) {
	return define(ctx, s, name, param.TypeRGB, func(b base) *RGB {
		return &RGB{newValued(b, param.RGBCodec)}
	})
}

// DefineRGBA declares an RGB colour with alpha.
func (s *Set) DefineRGBA(ctx context.Context, name string) (*RGBA, error) {
	return define(ctx, s, name, param.TypeRGBA, func(b base) *RGBA {
		return &RGBA{newValued(b, param.RGBACodec)}
	})
}

// DefineBoolean declares a checkbox.
func (s *Set) DefineBoolean(ctx context.Context, name string) (*Boolean, error) {
	return define(ctx, s, name, param.TypeBoolean, func(b base) *Boolean {
		return &Boolean{newValued(b, param.BoolCodec)}
	})
}

// DefineChoice declares a choice; options are appended afterwards.
func (s *Set) DefineChoice(ctx context.Context, name string) (*Choice, error) {
	return define(ctx, s, name, param.TypeChoice, func(b base) *Choice {
		return &Choice{newValued(b, param.IntCodec), propstore.ChoiceOptions{P: b.h}}
	})
}

// DefineCustom declares an opaque host-persisted string.
func (s *Set) DefineCustom(ctx context.Context, name string) (*Custom, error) {
	return define(ctx, s, name, param.TypeCustom, func(b base) *Custom {
		return &Custom{newValued(b, param.StringCodec)}
	})
}

// DefineGroup declares a group other descriptors can name as parent.
func (s *Set) DefineGroup(ctx context.Context, name string) (*Group, error) {
	return define(ctx, s, name, param.TypeGroup, func(b base) *Group { return &Group{b} })
}

// DefinePage declares a layout page.
func (s *Set) DefinePage(ctx context.Context, name string) (*Page, error) {
	return define(ctx, s, name, param.TypePage, func(b base) *Page { return &Page{b} })
}

// DefinePushButton declares a button. It carries no value.
func (s *Set) DefinePushButton(ctx context.Context, name string) (*PushButton, error) {
	return define(ctx, s, name, param.TypePushButton, func(b base) *PushButton { return &PushButton{b} })
}

// Define defines name as kind and returns the descriptor type-erased. It is
// the entry point for schema files, where the kind is only known at run time.
func (s *Set) Define(ctx context.Context, name string, kind param.Type) (Descriptor, error) {
	switch kind {
	case param.TypeInt:
		return erase(s.DefineInt(ctx, name))
	case param.TypeInt2D:
		return erase(s.DefineInt2D(ctx, name))
	case param.TypeInt3D:
		return erase(s.DefineInt3D(ctx, name))
	case param.TypeDouble:
		return erase(s.DefineDouble(ctx, name))
	case param.TypeDouble2D:
		return erase(s.DefineDouble2D(ctx, name))
	case param.TypeDouble3D:
		return erase(s.DefineDouble3D(ctx, name))
	case param.TypeString:
		return erase(s.DefineString(ctx, name))
	case param.TypeRGB:
		return erase(s.DefineRGB(ctx, name))
	case param.TypeRGBA:
		return erase(s.DefineRGBA(ctx, name))
	case param.TypeBoolean:
		return erase(s.DefineBoolean(ctx, name))
	case param.TypeChoice:
		return erase(s.DefineChoice(ctx, name))
	case param.TypeCustom:
		return erase(s.DefineCustom(ctx, name))
	case param.TypeGroup:
		return erase(s.DefineGroup(ctx, name))
	case param.TypePage:
		return erase(s.DefinePage(ctx, name))
	case param.TypePushButton:
		return erase(s.DefinePushButton(ctx, name))
	}
	return nil, fmt.Errorf("parameter %q: %s parameters cannot be defined", name, kind)
}

// erase converts a typed result without producing a non-nil interface
// holding a nil pointer.
func erase[T Descriptor](d T, err error) (Descriptor, error) {
	if err != nil {
		return nil, err
	}
	return d, nil
}
