// Package persistence provides the key/value stores that hold session
// snapshots and display preferences.
//
// Backends:
//   - MemoryStore: process-local map, used by tests and ephemeral servers
//   - FileStore: one file per key, nested by key segment, written atomically
//   - SQLiteStore: a goose-migrated kv table (modernc.org/sqlite, no cgo)
//   - RedisStore: plain string keys under a configurable prefix
//
// Decorators:
//   - Compressed: zstd-compresses values, passing legacy plain values through
//   - Guarded: puts a circuit breaker in front of a remote backend
//
// Open builds the configured stack.
package persistence
