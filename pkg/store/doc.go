// Package store persists document snapshots.
//
// A [Store] is a byte-oriented key/value store with optional expiry. The
// backends are:
//
//   - [FileStore]: one JSON entry per key under a directory, the CLI default
//   - [MemoryStore]: process-local, used by tests and the HTTP server
//   - [RedisStore]: shared store with native TTLs
//   - [MongoStore]: database store with a TTL index on the expiry field
//   - [NullStore]: discards everything
//
// [Save] and [Load] move [document.Snapshot] values through any backend as
// JSON. The editor core never imports this package; snapshots cross the
// boundary as plain records.
//
// # Keys
//
// Keys are validated with [errors.ValidateStoreKey] before reaching a
// backend, so a key never contains path separators or control characters.
//
// # Opening a configured store
//
//	st, err := store.Open(ctx, cfg.Store)
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//
//	err = store.Save(ctx, st, "roadmap", doc.Snapshot(), 0)
package store
