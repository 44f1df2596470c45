// Package sqlitestore is a durable propstore.Store backed by SQLite through
// the pure Go modernc.org/sqlite driver.
//
// Slot values, static values and keyframe values are stored as cty JSON.
// The cty type is never persisted: it follows from the slot and the
// parameter kind, both of which are fixed once a parameter exists.
//
// Keyframe operations load the parameter's track, apply the operation with
// package curve and write the track back inside one transaction.
package sqlitestore
