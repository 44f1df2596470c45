package param

import (
	"errors"
	"fmt"
)

var (
	// ErrSchemaConflict is returned when a name is declared again with a different type.
	ErrSchemaConflict = errors.New("schema conflict")
	// ErrTypeMismatch is returned when a name is fetched with a type other than its declared one.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrOutOfRange is returned for a key index outside [0, numberOfKeys).
	ErrOutOfRange = errors.New("key index out of range")
	// ErrNotFound is returned by a Property Store for names it holds no entry for.
	ErrNotFound = errors.New("parameter not found")
	// ErrCycle is returned when a parent reference would make a group its own ancestor.
	ErrCycle = errors.New("parent cycle")
	// ErrNoEditBlock is returned when an edit block is closed without being opened.
	ErrNoEditBlock = errors.New("no open edit block")
	// ErrUnknownSlot is returned for a property slot the parameter kind does not carry.
	ErrUnknownSlot = errors.New("unknown property slot")
)

// KindError describes a request for a name whose registered type differs
// from the requested one. It unwraps to ErrSchemaConflict or ErrTypeMismatch.
type KindError struct {
	Err       error
	Name      string
	Requested Type
	Actual    Type
}

func (e *KindError) Error() string {
	return fmt.Sprintf("%s: parameter %q is a %s, requested %s", e.Err, e.Name, e.Actual, e.Requested)
}

func (e *KindError) Unwrap() error { return e.Err }

// RangeError reports an invalid key index.
type RangeError struct {
	Name  string
	Index int
	Count int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: parameter %q has %d keys, asked for key %d", ErrOutOfRange, e.Name, e.Count, e.Index)
}

func (e *RangeError) Unwrap() error { return ErrOutOfRange }
