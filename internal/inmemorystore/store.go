package inmemorystore

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/vk/paramgrid/internal/ctxlog"
	"github.com/vk/paramgrid/internal/curve"
	"github.com/vk/paramgrid/internal/param"
	"github.com/vk/paramgrid/internal/propstore"
	"github.com/zclconf/go-cty/cty"
)

// EditBlock is a completed (or still open) group of mutations.
type EditBlock struct {
	ID        uuid.UUID
	Label     string
	Mutations int
}

// Store is an in-memory implementation of propstore.Store.
type Store struct {
	mu sync.Mutex

	params   map[string]*entry
	order    []string
	setProps *bag
	now      float64

	open    *EditBlock
	depth   int
	history []EditBlock
}

// New creates a new, empty in-memory property store.
func New() *Store {
	s := &Store{params: make(map[string]*entry)}
	s.setProps = &bag{store: s, kind: param.TypeDummy, slots: propstore.SetDefaults()}
	return s
}

var _ propstore.Store = (*Store)(nil)

// CreateProperty creates the storage for a new parameter.
func (s *Store) CreateProperty(ctx context.Context, name string, kind param.Type) (propstore.Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name == "" {
		return nil, fmt.Errorf("parameter name must not be empty")
	}
	if existing, ok := s.params[name]; ok {
		if existing.kind != kind {
			return nil, &param.KindError{Err: param.ErrSchemaConflict, Name: name, Requested: kind, Actual: existing.kind}
		}
		return &handle{e: existing}, nil
	}

	e := &entry{bag: bag{store: s, kind: kind, slots: propstore.Defaults(name, kind)}, name: name}
	if kind.HoldsValue() {
		track, err := curve.New(kind, e.slots[propstore.SlotDefault])
		if err != nil {
			return nil, err
		}
		track.Animates = e.slots[propstore.SlotAnimates].True()
		e.track = track
	}
	s.params[name] = e
	s.order = append(s.order, name)
	ctxlog.FromContext(ctx).Debug("Property created.", "name", name, "type", kind.String())
	return &handle{e: e}, nil
}

// LookupProperty returns the handle for an existing parameter.
func (s *Store) LookupProperty(ctx context.Context, name string) (propstore.Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.params[name]
	if !ok {
		return nil, fmt.Errorf("lookup %q: %w", name, param.ErrNotFound)
	}
	return &handle{e: e}, nil
}

func (s *Store) PropertyExists(ctx context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.params[name]
	return ok, nil
}

func (s *Store) PropertyType(ctx context.Context, name string) (param.Type, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.params[name]
	if !ok {
		return param.TypeDummy, fmt.Errorf("type of %q: %w", name, param.ErrNotFound)
	}
	return e.kind, nil
}

func (s *Store) Names(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out, nil
}

func (s *Store) SetProperties() propstore.Properties { return s.setProps }

func (s *Store) Time() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

func (s *Store) SetTime(t float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = t
}

// BeginEditBlock opens an edit block, or nests inside the open one.
func (s *Store) BeginEditBlock(ctx context.Context, label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.depth++
	if s.open == nil {
		s.open = &EditBlock{ID: uuid.New(), Label: label}
		ctxlog.FromContext(ctx).Debug("Edit block opened.", "label", label, "id", s.open.ID.String())
	}
	return nil
}

// EndEditBlock closes one level of nesting; the outermost call completes
// the block.
func (s *Store) EndEditBlock(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.depth == 0 {
		return param.ErrNoEditBlock
	}
	s.depth--
	if s.depth == 0 {
		ctxlog.FromContext(ctx).Debug("Edit block closed.", "label", s.open.Label, "mutations", s.open.Mutations)
		s.history = append(s.history, *s.open)
		s.open = nil
	}
	return nil
}

// OpenEditBlock reports whether an edit block is currently open.
func (s *Store) OpenEditBlock() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open != nil
}

// History returns the completed edit blocks, oldest first.
func (s *Store) History() []EditBlock {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]EditBlock, len(s.history))
	copy(out, s.history)
	return out
}

// mutated must be called with mu held.
func (s *Store) mutated() {
	if s.open != nil {
		s.open.Mutations++
	}
}

// bag is a property bag guarded by its store's mutex.
type bag struct {
	store *Store
	kind  param.Type
	slots map[propstore.Slot]cty.Value
}

func (b *bag) Get(slot propstore.Slot) (cty.Value, error) {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	v, ok := b.slots[slot]
	if !ok {
		return cty.NilVal, fmt.Errorf("get %s: %w", slot, param.ErrUnknownSlot)
	}
	return v, nil
}

func (b *bag) Set(slot propstore.Slot, v cty.Value) error {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	return b.setLocked(slot, v)
}

func (b *bag) setLocked(slot propstore.Slot, v cty.Value) error {
	if _, ok := b.slots[slot]; !ok {
		return fmt.Errorf("set %s: %w", slot, param.ErrUnknownSlot)
	}
	v, err := propstore.Coerce(b.kind, slot, v)
	if err != nil {
		return err
	}
	b.slots[slot] = v
	b.store.mutated()
	return nil
}
