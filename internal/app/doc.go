// Package app wires a paramgrid process together: logging, metrics, the
// property store, schema loading, the declaration phase and the runtime
// instance set. It is independent of any entrypoint; the cli package drives
// it.
package app
