// Package descriptor implements the declaration phase: a Set defines one
// descriptor per parameter name, backed by storage created in a
// propstore.Store, and arranges descriptors into groups and pages.
//
// Descriptors are schema only. They carry labels, ranges, defaults and
// behavior flags but never a live value; see package instance for that.
//
// Every DefineX method is define-or-fetch: defining a name twice with the
// same kind returns the same descriptor, with a different kind it fails with
// an error wrapping param.ErrSchemaConflict.
package descriptor
