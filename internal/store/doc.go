// Package store persists one delegated-authorization credential record per
// user identity in a SQLite database.
//
// The store is the only shared mutable state in the service. Writes are
// upserts keyed by identity; concurrent upserts for the same identity are
// last-write-wins, relying on SQLite's per-statement atomicity.
package store
