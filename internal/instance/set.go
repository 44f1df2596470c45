package instance

import (
	"context"
	"fmt"

	"github.com/vk/paramgrid/internal/ctxlog"
	"github.com/vk/paramgrid/internal/metrics"
	"github.com/vk/paramgrid/internal/param"
	"github.com/vk/paramgrid/internal/propstore"
	"github.com/vk/paramgrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Param is implemented by every instance kind in this package.
type Param interface {
	Name() string
	Type() param.Type
	Label() (string, error)
	ParentName() (string, error)
	Handle() propstore.Handle

	isParam()
}

// Animated is the kind-independent surface of every value-holding kind,
// with values as cty.
type Animated interface {
	Param
	RawValueAtTime(t float64) (cty.Value, error)
	SetRawValue(v cty.Value) error
	SetRawValueAtTime(t float64, v cty.Value) error
	NumKeys() (int, error)
	KeyTime(i int) (float64, error)
	KeyIndex(t float64, dir param.KeySearch) (int, error)
	DeleteKeyAtTime(t float64) error
	DeleteAllKeys() error
	IsAnimating() (bool, error)
}

// Set is the instance registry of one runtime phase. It is not safe for
// concurrent use.
type Set struct {
	store     propstore.Store
	reg       *registry.Registry
	recorder  *metrics.Recorder
	observers []Observer
}

// NewSet creates an instance set over store. recorder may be nil.
func NewSet(store propstore.Store, recorder *metrics.Recorder) *Set {
	return &Set{
		store:    store,
		reg:      registry.New("fetch", param.ErrTypeMismatch, recorder),
		recorder: recorder,
	}
}

// Store is the property store the set reads from.
func (s *Set) Store() propstore.Store { return s.store }

// Observe registers o to be told about every value or key change made
// through this set's instances.
func (s *Set) Observe(o Observer) { s.observers = append(s.observers, o) }

// ParamExists reports whether name has storage. It neither creates nor
// caches an instance.
func (s *Set) ParamExists(ctx context.Context, name string) (bool, error) {
	return s.store.PropertyExists(ctx, name)
}

// ParamType returns the kind name was declared as.
func (s *Set) ParamType(ctx context.Context, name string) (param.Type, error) {
	return s.store.PropertyType(ctx, name)
}

// Names lists every declared parameter, fetched or not.
func (s *Set) Names(ctx context.Context) ([]string, error) {
	return s.store.Names(ctx)
}

// BeginEditBlock opens an undoable group of mutations. Prefer EditBlock,
// which guarantees the matching EndEditBlock.
func (s *Set) BeginEditBlock(ctx context.Context, label string) error {
	return s.store.BeginEditBlock(ctx, label)
}

func (s *Set) EndEditBlock(ctx context.Context) error {
	return s.store.EndEditBlock(ctx)
}

// EditBlock runs fn inside an edit block. The block is closed on every exit
// path, including an error or panic in fn.
func (s *Set) EditBlock(ctx context.Context, label string, fn func() error) (err error) {
	if err := s.BeginEditBlock(ctx, label); err != nil {
		return err
	}
	defer func() {
		if endErr := s.EndEditBlock(ctx); endErr != nil {
			if err == nil {
				err = endErr
				return
			}
			ctxlog.FromContext(ctx).Error("Failed to close edit block.", "label", label, "error", endErr)
		}
	}()
	return fn()
}

func fetch[T registry.Entry](ctx context.Context, s *Set, name string, kind param.Type, build func(base) T) (T, error) {
	return registry.Resolve(ctx, s.reg, name, kind, func() (T, error) {
		var zero T
		h, err := s.store.LookupProperty(ctx, name)
		if err != nil {
			return zero, err
		}
		if h.Type() != kind {
			return zero, &param.KindError{Err: param.ErrTypeMismatch, Name: name, Requested: kind, Actual: h.Type()}
		}
		return build(newBase(s, h)), nil
	})
}

// FetchInt fetches an integer parameter.
func (s *Set) FetchInt(ctx context.Context, name string) (*Int, error) {
	return fetch(ctx, s, name, param.TypeInt, func(b base) *Int {
		return &Int{newRanged(b, param.IntCodec), calculus[float64]{b.h, param.FloatCodec}}
	})
}

// FetchInt2D fetches a 2D integer.
func (s *Set) FetchInt2D(ctx context.Context, name string) (*Int2D, error) {
	return fetch(ctx, s, name, param.TypeInt2D, func(b base) *Int2D {
		return &Int2D{
			newRanged(b, param.Int2DCodec),
			calculus[param.Double2D]{b.h, param.Double2DCodec},
			propstore.Dimensions{P: b.h, N: 2},
		}
	})
}

// FetchInt3D fetches a 3D integer.
func (s *Set) FetchInt3D(ctx context.Context, name string) (*Int3D, error) {
	return fetch(ctx, s, name, param.TypeInt3D, func(b base) *Int3D {
		return &Int3D{
			newRanged(b, param.Int3DCodec),
			calculus[param.Double3D]{b.h, param.Double3DCodec},
			propstore.Dimensions{P: b.h, N: 3},
		}
	})
}

// FetchDouble fetches a double.
func (s *Set) FetchDouble(ctx context.Context, name string) (*Double, error) {
	return fetch(ctx, s, name, param.TypeDouble, func(b base) *Double {
		return &Double{
			newRanged(b, param.FloatCodec),
			calculus[float64]{b.h, param.FloatCodec},
			propstore.DoubleAttrs{P: b.h},
		}
	})
}

// FetchDouble2D fetches a 2D double.
func (s *Set) FetchDouble2D(ctx context.Context, name string) (*Double2D, error) {
	return fetch(ctx, s, name, param.TypeDouble2D, func(b base) *Double2D {
		return &Double2D{
			newRanged(b, param.Double2DCodec),
			calculus[param.Double2D]{b.h, param.Double2DCodec},
			propstore.DoubleAttrs{P: b.h},
			propstore.Dimensions{P: b.h, N: 2},
		}
	})
}

// FetchDouble3D fetches a 3D double.
func (s *Set) FetchDouble3D(ctx context.Context, name string) (*Double3D, error) {
	return fetch(ctx, s, name, param.TypeDouble3D, func(b base) *Double3D {
		return &Double3D{
			newRanged(b, param.Double3DCodec),
			calculus[param.Double3D]{b.h, param.Double3DCodec},
			propstore.DoubleAttrs{P: b.h},
			propstore.Dimensions{P: b.h, N: 3},
		}
	})
}

// FetchString fetches a string parameter.
func (s *Set) FetchString(ctx context.Context, name string) (*String, error) {
	return fetch(ctx, s, name, param.TypeString, func(b base) *String {
		return &String{newValued(b, param.StringCodec), propstore.StringAttrs{P: b.h}}
	})
}

// FetchRGB fetches an RGB colour.
func (s *Set) FetchRGB(ctx context.Context, name string) (*RGB, error) {
	return fetch(ctx, s, name, param.TypeRGB, func(b base) *RGB {
		return &RGB{newValued(b, param.RGBCodec)}
	})
}

// FetchRGBA fetches an RGBA colour.
func (s *Set) FetchRGBA(ctx context.Context, name string) (*RGBA, error) {
	return fetch(ctx, s, name, param.TypeRGBA, func(b base) *RGBA {
		return &RGBA{newValued(b, param.RGBACodec)}
	})
}

// FetchBoolean fetches a boolean.
func (s *Set) FetchBoolean(ctx context.Context, name string) (*Boolean, error) {
	return fetch(ctx, s, name, param.TypeBoolean, func(b base) *Boolean {
		return &Boolean{newValued(b, param.BoolCodec)}
	})
}

// FetchChoice fetches a choice.
func (s *Set) FetchChoice(ctx context.Context, name string) (*Choice, error) {
	return fetch(ctx, s, name, param.TypeChoice, func(b base) *Choice {
		return &Choice{newValued(b, param.IntCodec), propstore.ChoiceOptions{P: b.h}}
	})
}

// FetchCustom fetches a custom parameter.
func (s *Set) FetchCustom(ctx context.Context, name string) (*Custom, error) {
	return fetch(ctx, s, name, param.TypeCustom, func(b base) *Custom {
		return &Custom{newValued(b, param.StringCodec)}
	})
}

// FetchGroup fetches a group.
func (s *Set) FetchGroup(ctx context.Context, name string) (*Group, error) {
	return fetch(ctx, s, name, param.TypeGroup, func(b base) *Group { return &Group{b} })
}

// FetchPage fetches a page.
func (s *Set) FetchPage(ctx context.Context, name string) (*Page, error) {
	return fetch(ctx, s, name, param.TypePage, func(b base) *Page { return &Page{b} })
}

// FetchPushButton fetches a push button.
func (s *Set) FetchPushButton(ctx context.Context, name string) (*PushButton, error) {
	return fetch(ctx, s, name, param.TypePushButton, func(b base) *PushButton { return &PushButton{b} })
}

// GetParam fetches name as whatever kind it was declared as.
func (s *Set) GetParam(ctx context.Context, name string) (Param, error) {
	if e, ok := s.reg.Lookup(name); ok {
		if p, ok := e.(Param); ok {
			return p, nil
		}
	}
	kind, err := s.store.PropertyType(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.Fetch(ctx, name, kind)
}

// Fetch fetches name as kind and returns the instance type-erased.
func (s *Set) Fetch(ctx context.Context, name string, kind param.Type) (Param, error) {
	switch kind {
	case param.TypeInt:
		return erase(s.FetchInt(ctx, name))
	case param.TypeInt2D:
		return erase(s.FetchInt2D(ctx, name))
	case param.TypeInt3D:
		return erase(s.FetchInt3D(ctx, name))
	case param.TypeDouble:
		return erase(s.FetchDouble(ctx, name))
	case param.TypeDouble2D:
		return erase(s.FetchDouble2D(ctx, name))
	case param.TypeDouble3D:
		return erase(s.FetchDouble3D(ctx, name))
	case param.TypeString:
		return erase(s.FetchString(ctx, name))
	case param.TypeRGB:
		return erase(s.FetchRGB(ctx, name))
	case param.TypeRGBA:
		return erase(s.FetchRGBA(ctx, name))
	case param.TypeBoolean:
		return erase(s.FetchBoolean(ctx, name))
	case param.TypeChoice:
		return erase(s.FetchChoice(ctx, name))
	case param.TypeCustom:
		return erase(s.FetchCustom(ctx, name))
	case param.TypeGroup:
		return erase(s.FetchGroup(ctx, name))
	case param.TypePage:
		return erase(s.FetchPage(ctx, name))
	case param.TypePushButton:
		return erase(s.FetchPushButton(ctx, name))
	}
	return nil, fmt.Errorf("parameter %q: %s parameters have no instance", name, kind)
}

func erase[T Param](p T, err error) (Param, error) {
	if err != nil {
		return nil, err
	}
	return p, nil
}
