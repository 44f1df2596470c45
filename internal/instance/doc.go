// Package instance implements the runtime phase: a Set fetches the live
// instance of a parameter declared earlier through package descriptor and
// caches it for the set's lifetime.
//
// Instances read and write values through the borrowed propstore.Handle
// they wrap. Value-holding kinds expose the keyframe operations of the
// handle with Go-typed values; numeric kinds add Differentiate and
// Integrate.
//
// FetchX is fetch-or-create: fetching a name twice with the same kind
// returns the same instance, with a different kind it fails with an error
// wrapping param.ErrTypeMismatch. Names without storage fail with
// param.ErrNotFound.
package instance
