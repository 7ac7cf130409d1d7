// Package store provides SQLite-backed storage for translation history.
//
// The store keeps two tables:
//   - outputs: emitted assembly, content addressed by output hash
//   - translations: an append-only log of compile runs, each naming the
//     module hash, the lowering options and the output it produced
//
// Lowering is deterministic, so a (module hash, options) pair found in the
// log identifies its output exactly and serves as a cache key.
//
// # Ordering
//
// Translations are ordered by seq, a logical counter assigned on insert.
// Queries never order by wall time, and ties break on id COLLATE BINARY.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
