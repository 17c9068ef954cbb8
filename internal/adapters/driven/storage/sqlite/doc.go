// Package sqlite provides the SQLite-backed implementation of the
// DocumentStore port.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation
// that requires no CGO, enabling easy cross-compilation. It persists the
// vector store's document set: text content, metadata tags and the
// embedding vectors, serialised as little-endian float32 blobs.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in
// the migrations/ directory.
//
// # Data Location
//
// By default, the database is stored at ~/.growthpilot/data/store.db
//
// # Atomicity
//
// ReplaceAll runs inside a single transaction, so the rebuild-on-delete
// path either swaps the whole persisted set or leaves it untouched. A
// failed rebuild never leaves a half-written store behind.
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
