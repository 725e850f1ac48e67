// Package kvstore is the client's persistent key-value store.
//
// # Layers
//
// A Backend stores raw bytes under string keys. Backends:
//
//   - MemoryBackend  - in-process map, for tests and throwaway sessions
//   - SQLiteBackend  - modernc.org/sqlite with goose migrations (default)
//   - BoltBackend    - go.etcd.io/bbolt single-file database
//   - FileBackend    - one JSON document replaced atomically on every write
//   - RedisBackend   - redis, keys namespaced with a prefix
//
// Every backend also implements Batcher, so multi-key writes and deletes are
// all-or-nothing.
//
// Store layers JSON encoding over a Backend. Store.Get tells three outcomes
// apart: the key is absent (ErrNotFound), the stored bytes do not decode
// (ErrCorrupt), or the backend failed. Callers that only care whether a usable
// value exists use IsAbsent, which treats a corrupt value like a missing one.
//
// # Concurrency
//
// Backends are safe for concurrent use. Store adds no locking of its own.
package kvstore
