// Package propstore defines the boundary to the Property Store: the host
// collaborator that owns every parameter's storage. The descriptor and
// instance registries only ever talk to a Store through these interfaces.
//
// # Model
//
// A Store holds one property bag per parameter name plus one for the
// parameter set itself. Bags are addressed by Slot and hold cty values. Each
// value-holding parameter also owns a keyframe track (see package curve)
// reachable through the animation half of Handle.
//
// # Lifecycle
//
//  1. The declaration phase calls CreateProperty once per name and fills in
//     metadata slots.
//  2. The runtime phase calls LookupProperty / PropertyExists and reads or
//     writes values and keys through the returned Handle.
//  3. Handles are borrowed: the host controls their lifetime and they must
//     outlive every descriptor or instance wrapping them.
//
// See internal/inmemorystore and internal/sqlitestore for implementations.
package propstore

import (
	"context"

	"github.com/vk/paramgrid/internal/param"
	"github.com/zclconf/go-cty/cty"
)

// Properties is a typed key/value property bag.
type Properties interface {
	// Get returns the value of a slot, or an error wrapping
	// param.ErrUnknownSlot if the bag does not carry it.
	Get(slot Slot) (cty.Value, error)

	// Set replaces the value of a slot. The value is converted to the
	// slot's type; incompatible values are rejected.
	Set(slot Slot, v cty.Value) error
}

// Handle is the live binding to one parameter's storage.
type Handle interface {
	Properties

	Name() string
	Type() param.Type

	// NumKeys is 0 for parameters that are not animating.
	NumKeys() (int, error)
	// KeyTime fails with param.ErrOutOfRange outside [0, NumKeys).
	KeyTime(i int) (float64, error)
	// KeyIndex returns -1 when no key satisfies the search.
	KeyIndex(t float64, dir param.KeySearch) (int, error)
	DeleteKeyAtTime(t float64) error
	DeleteAllKeys() error

	// Value is the value at the host's current time.
	Value() (cty.Value, error)
	ValueAtTime(t float64) (cty.Value, error)
	// SetValue writes the static value, or a key at the current time
	// when the parameter is animating.
	SetValue(v cty.Value) error
	SetValueAtTime(t float64, v cty.Value) error

	Derivative(t float64) (cty.Value, error)
	Integral(t1, t2 float64) (cty.Value, error)
}

// Store is the host side of the parameter system.
type Store interface {
	// CreateProperty creates the storage for a new parameter, initialised
	// with the kind's default slots.
	CreateProperty(ctx context.Context, name string, kind param.Type) (Handle, error)

	// LookupProperty returns the handle for an existing parameter or an
	// error wrapping param.ErrNotFound.
	LookupProperty(ctx context.Context, name string) (Handle, error)

	// PropertyExists is a pure read of the name-to-type mapping.
	PropertyExists(ctx context.Context, name string) (bool, error)

	// PropertyType returns the kind a name was created with.
	PropertyType(ctx context.Context, name string) (param.Type, error)

	// Names lists parameters in creation order.
	Names(ctx context.Context) ([]string, error)

	// SetProperties is the bag belonging to the parameter set.
	SetProperties() Properties

	// Time is the host's current time; SetTime moves it.
	Time() float64
	SetTime(t float64)

	// BeginEditBlock and EndEditBlock bracket mutations the host should
	// present as a single undoable edit. Blocks nest; EndEditBlock without an
	// open block fails with param.ErrNoEditBlock.
	BeginEditBlock(ctx context.Context, label string) error
	EndEditBlock(ctx context.Context) error
}
