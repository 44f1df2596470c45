// Package inmemorystore provides an ephemeral, in-memory implementation of
// the propstore.Store interface. It stands in for the host in tests and in
// CLI dry runs where nothing needs to survive the process.
//
// # Characteristics
//
//   - **Ephemeral:** Created fresh per run, nothing is persisted
//   - **Guarded:** A single mutex serialises access, so a host may share one
//     store between goroutines even though the registries above it are
//     single-threaded
//   - **Observable:** Completed edit blocks are kept in History so callers can
//     check how mutations were grouped
package inmemorystore
