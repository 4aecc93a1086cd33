// Package repositories implements SQLite persistence for the play history.
//
// Key Implementations:
//   - [PlayRepository] : Recorded track starts with recency and per-player queries
//
// Sequence numbers provide stable, human-readable ordering (e.g., play #42) independent of UUIDs and timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
