// Package store persists the AquaFlow document in a key-value backend.
//
// The whole document lives under a single key and every write replaces it:
//   - Load returns the current document, seeding the demo dataset when the
//     key is absent.
//   - Mutate runs a read-modify-write on a copy and swaps it in only after
//     the backend accepted the write.
//   - Get and Replace read and overwrite one named collection.
//
// # Versioning
//
// Backends keep a version counter per key. A write names the version it
// read; a mismatch returns ErrConflict and nothing is written. Documents
// carry schemaVersion; version 0 documents are upgraded on load and newer
// versions are refused with ErrUnsupportedSchema.
//
// # Recovery
//
// A blob that cannot be decoded is copied to "aquaFlowData.recovery.<nanos>"
// before a freshly seeded document replaces it.
//
// # Backends
//
//   - SQLiteBackend: table kv(key, value, version, updated_at) in WAL mode
//   - RedisBackend: one hash per key, writes serialised with redislock
//   - MemoryBackend: in-process map for tests and scenario runs
package store
