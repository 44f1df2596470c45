package registry

import (
	"context"
	"fmt"

	"github.com/vk/paramgrid/internal/ctxlog"
	"github.com/vk/paramgrid/internal/metrics"
	"github.com/vk/paramgrid/internal/param"
)

// Entry is anything a Registry can cache.
type Entry interface {
	Name() string
	Type() param.Type
}

// Registry caches one Entry per name.
type Registry struct {
	phase    string
	mismatch error
	entries  map[string]Entry
	order    []string
	recorder *metrics.Recorder
}

// New creates an empty registry. phase labels logs and metrics; mismatch is
// the sentinel a type mismatch on a cached name is reported with.
func New(phase string, mismatch error, recorder *metrics.Recorder) *Registry {
	return &Registry{
		phase:    phase,
		mismatch: mismatch,
		entries:  make(map[string]Entry),
		recorder: recorder,
	}
}

// Lookup returns the cached entry for name.
func (r *Registry) Lookup(name string) (Entry, bool) {
	e, ok := r.entries[name]
	return e, ok
}

// Names returns the cached names in insertion order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len is the number of cached entries.
func (r *Registry) Len() int { return len(r.entries) }

// Resolve returns the entry cached under name as a T, creating and caching
// it with create if the name is new. A cached entry of another type, or one
// that is not a T, fails with the registry's mismatch error.
func Resolve[T Entry](ctx context.Context, r *Registry, name string, kind param.Type, create func() (T, error)) (T, error) {
	var zero T
	logger := ctxlog.FromContext(ctx)

	if cached, ok := r.entries[name]; ok {
		typed, isT := cached.(T)
		if cached.Type() != kind || !isT {
			r.recorder.Lookup(r.phase, metrics.ResultMismatch)
			logger.Warn("Parameter requested with the wrong type.", "phase", r.phase, "name", name, "registered", cached.Type().String(), "requested", kind.String())
			return zero, &param.KindError{Err: r.mismatch, Name: name, Requested: kind, Actual: cached.Type()}
		}
		r.recorder.Lookup(r.phase, metrics.ResultHit)
		return typed, nil
	}

	created, err := create()
	if err != nil {
		r.recorder.Lookup(r.phase, metrics.ResultError)
		return zero, fmt.Errorf("%s %q: %w", r.phase, name, err)
	}
	if created.Type() != kind || created.Name() != name {
		return zero, fmt.Errorf("%s %q: constructor returned %s %q", r.phase, name, created.Type(), created.Name())
	}
	r.entries[name] = created
	r.order = append(r.order, name)
	r.recorder.Lookup(r.phase, metrics.ResultMiss)
	logger.Debug("Parameter cached.", "phase", r.phase, "name", name, "type", kind.String())
	return created, nil
}
