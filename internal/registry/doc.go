// Package registry provides the lookup-or-create cache shared by the
// declaration phase (descriptor sets) and the runtime phase (instance sets).
//
// A Registry maps a name to the single object created for it. The first
// request for a name runs a constructor and caches the result; every later
// request either returns that same object, when the requested type matches,
// or fails with the error kind configured for the phase. The type check and
// the narrowing to the caller's concrete type happen together in Resolve, so
// a cached entry can never be handed out as the wrong kind.
//
// Entries are never evicted individually; the cache lives as long as the set
// that owns it. A Registry is not safe for concurrent use: lookup-or-create
// is a check-then-act sequence.
package registry
