// Package persist is the client's durable key/value layer.
//
// A Store keeps opaque JSON values under named keys and reports changes made
// by other execution contexts (another terminal, another process sharing the
// database, another client on the same Redis namespace). Three backends are
// provided:
//
//   - MemoryStore: several stores opened from one Hub share data; used by
//     tests and for throwaway sessions.
//   - SQLiteStore: a local SQLite file migrated with goose. Foreign writes are
//     discovered by polling a monotonically increasing revision column.
//   - RedisStore: namespaced Redis keys with change notifications published on
//     "<namespace>:changes".
//
// Slice[T] layers typed, default-guarded access on top of a Store: loads never
// fail, saves never fail the caller, and foreign changes are delivered already
// decoded (or replaced by the default when malformed).
package persist
